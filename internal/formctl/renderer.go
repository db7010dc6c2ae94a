package formctl

// Renderer is the page surface the controller reads from and writes to: the URL
// input, the submit control with its busy indicator, the message panel and the
// result panel.
type Renderer interface {
	InputValue() string
	SetInputValue(v string)

	ShowMessage(m Message)
	ClearMessage()

	ShowResult(c Card)
	ClearResult()

	// SetBusy disables the submit control and shows the busy indicator, or reverses both.
	SetBusy(busy bool)
}
