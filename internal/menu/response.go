package menu

// Response is the outcome of one dialog step
type Response struct {
	Text string
	End  bool
	// Discard asks the caller to drop the session instead of storing it
	Discard bool
}

// Con continues the dialog
func Con(text string) Response {
	return Response{Text: text}
}

// End terminates the dialog
func End(text string) Response {
	return Response{Text: text, End: true}
}

// String renders the gateway wire form
func (r Response) String() string {
	if r.End {
		return "END " + r.Text
	}
	return "CON " + r.Text
}
