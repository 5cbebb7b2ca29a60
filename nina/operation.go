package nina

// Command is a single-byte code drawn from the peer firmware's closed
// enumeration. The high bit (controlReplyFlag) distinguishes request frames
// (clear) from reply frames (set); Command values are always stored
// with the bit clear.
type Command byte

// Control byte sentinels, fixed by the peer firmware.
const (
	controlStart     byte = 0xE0
	controlEnd       byte = 0xEE
	controlReplyFlag byte = 0x80
	controlDummy     byte = 0xFF
	controlError     byte = 0xEF
)

// MaxParams bounds the number of parameters in a single operation, and
// the number a reply may declare, per the peer firmware's limit.
const MaxParams = 8

// MaxResponseLen is the peer firmware's maximum single-chunk response
// length. The engine never allocates a response buffer larger than this.
const MaxResponseLen = 5744

// Operation is an immutable bundle of a command code and its ordered
// parameter list, built by a fluent accumulator and consumed once by
// the engine.
type Operation struct {
	command Command
	params  []Parameter
}

// NewOperation starts an Operation for the given command.
func NewOperation(cmd Command) Operation {
	return Operation{command: cmd}
}

// Param appends a parameter, returning the extended Operation. The
// on-the-wire order matches the call order.
func (o Operation) Param(p Parameter) Operation {
	params := make([]Parameter, len(o.params), len(o.params)+1)
	copy(params, o.params)
	o.params = append(params, p)
	return o
}

// Command reports the operation's command code.
func (o Operation) Command() Command {
	return o.command
}

// Params reports the operation's parameters, in call order.
func (o Operation) Params() []Parameter {
	return o.params
}
