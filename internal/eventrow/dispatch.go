package eventrow

// Dispatcher performs navigation side effects for a client.
type Dispatcher interface {
	ShowRepository(owner, name string)
	ShowCommit(owner, name, sha string)
	ShowIssue(owner, name string, number int)
	ShowPullRequest(owner, name string, number int)
	OpenModal(options []PickerOption)
	CloseModal()
}

// Dispatch is the client-side adapter: it replays commands from Route or
// Select against d in order. CommandNone is a no-op.
func Dispatch(d Dispatcher, cmds ...Command) {
	for _, cmd := range cmds {
		switch cmd.Kind {
		case CommandShowRepository:
			d.ShowRepository(cmd.Owner, cmd.Name)
		case CommandShowCommit:
			d.ShowCommit(cmd.Owner, cmd.Name, cmd.SHA)
		case CommandShowIssue:
			d.ShowIssue(cmd.Owner, cmd.Name, cmd.Number)
		case CommandShowPullRequest:
			d.ShowPullRequest(cmd.Owner, cmd.Name, cmd.Number)
		case CommandOpenModal:
			d.OpenModal(cmd.Options)
		case CommandCloseModal:
			d.CloseModal()
		}
	}
}
