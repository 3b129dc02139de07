// Package messages defines the NATS contracts between the HTTP surface, the
// terminal engine and the transcript view.
//
// Two streams carry everything:
//
//   - COMMAND (work queue, "command.>"): one TerminalCommandMessage per line
//     submitted from the input field, on command.terminal.session.<sid>.run.
//   - EVENT ("event.>"): one TerminalBlockEvent per executed line, on
//     event.terminal.session.<sid>.block. Replaying a session's subject in
//     order yields its transcript.
//
// # Usage Example
//
//	publisher := messages.NewPublisher(js)
//	cmd := messages.NewTerminalCommandMessage(sid, "echo hello")
//	if err := publisher.PublishCommand(ctx, cmd); err != nil {
//	    return err
//	}
//
// Pattern constants are for consumers, the builder functions
// (TerminalRunSubject, TerminalBlockSubject) for publishers.
package messages
