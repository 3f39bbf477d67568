package domain

// Command is an inbound intent dispatched to the router.
// Every command carries the connection it originates from so that
// handlers can resolve the sender's sink and membership.
type Command interface {
	From() ConnectionID
}

type JoinLiveCommand struct {
	Conn ConnectionID
	Live RoomID
}

type LeaveLiveCommand struct {
	Conn ConnectionID
	Live RoomID
}

type StartLiveCommand struct {
	Conn       ConnectionID
	Descriptor LiveDescriptor
}

type EndLiveCommand struct {
	Conn ConnectionID
	Live RoomID
}

type JoinVideoCommand struct {
	Conn  ConnectionID
	Video RoomID
}

type LeaveVideoCommand struct {
	Conn  ConnectionID
	Video RoomID
}

type LikeVideoCommand struct {
	Conn   ConnectionID
	Video  RoomID
	UserID string
}

type CommentVideoCommand struct {
	Conn    ConnectionID
	Video   RoomID
	Comment Comment
}

// IdentifyCommand is the post-connect identity announcement.
// The principal is already bound by the gate, the command only
// lets the router detect clients claiming someone else's identity.
type IdentifyCommand struct {
	Conn   ConnectionID
	UserID string
}

type DisconnectCommand struct {
	Conn ConnectionID
}

func (c JoinLiveCommand) From() ConnectionID     { return c.Conn }
func (c LeaveLiveCommand) From() ConnectionID    { return c.Conn }
func (c StartLiveCommand) From() ConnectionID    { return c.Conn }
func (c EndLiveCommand) From() ConnectionID      { return c.Conn }
func (c JoinVideoCommand) From() ConnectionID    { return c.Conn }
func (c LeaveVideoCommand) From() ConnectionID   { return c.Conn }
func (c LikeVideoCommand) From() ConnectionID    { return c.Conn }
func (c CommentVideoCommand) From() ConnectionID { return c.Conn }
func (c IdentifyCommand) From() ConnectionID     { return c.Conn }
func (c DisconnectCommand) From() ConnectionID   { return c.Conn }
