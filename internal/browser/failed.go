package browser

import "context"

// Failed returns a locator every operation of which fails with err. Chained
// locators fail the same way.
func Failed(selector string, err error) Locator {
	return failedLocator{selector: selector, err: err}
}

type failedLocator struct {
	selector string
	err      error
}

func (f failedLocator) Selector() string { return f.selector }

func (f failedLocator) Locator(string) Locator { return f }

func (f failedLocator) First() Locator { return f }

func (f failedLocator) Nth(int) Locator { return f }

func (f failedLocator) Count(context.Context) (int, error) { return 0, f.err }

func (f failedLocator) All(context.Context) ([]Locator, error) { return nil, f.err }

func (f failedLocator) WaitFor(context.Context, WaitForOptions) error { return f.err }

func (f failedLocator) IsVisible(context.Context) (bool, error) { return false, f.err }

func (f failedLocator) TextContent(context.Context) (string, error) { return "", f.err }

func (f failedLocator) NodeText(context.Context) (string, error) { return "", f.err }

func (f failedLocator) InnerHTML(context.Context) (string, error) { return "", f.err }

func (f failedLocator) GetAttribute(context.Context, string) (string, bool, error) {
	return "", false, f.err
}

func (f failedLocator) Click(context.Context) error { return f.err }
