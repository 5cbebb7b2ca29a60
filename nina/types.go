package nina

import "fmt"

// IPv4 is a dotted-quad address as the wire protocol encodes it.
type IPv4 [4]byte

func (a IPv4) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", a[0], a[1], a[2], a[3])
}

// Socket is a coprocessor-allocated socket handle.
type Socket byte

// Port is a TCP port number, encoded big-endian on the wire.
type Port uint16

// FirmwareVersion is the coprocessor's reported version, parsed from
// GetFwVersion's 5 ASCII bytes ("M.m.p").
type FirmwareVersion struct {
	Major, Minor, Patch byte
}

func (v FirmwareVersion) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// ParseFirmwareVersion decodes the 5-byte ASCII reply of GetFwVersion
// (e.g. "1.7.4"). It does not validate the separators; it only reads
// the three digit positions the firmware is known to emit.
func ParseFirmwareVersion(b []byte) (FirmwareVersion, error) {
	if len(b) < 5 {
		return FirmwareVersion{}, fmt.Errorf("nina: firmware version: short reply (%d bytes)", len(b))
	}
	return FirmwareVersion{
		Major: b[0] - '0',
		Minor: b[2] - '0',
		Patch: b[4] - '0',
	}, nil
}

// ConnectionStatus is the coprocessor's Wi-Fi association state, as
// returned by GetConnStatus.
type ConnectionStatus byte

const (
	StatusIdle ConnectionStatus = iota
	StatusNoSSIDAvail
	StatusScanCompleted
	StatusConnected
	StatusConnectFailed
	StatusConnectionLost
	StatusDisconnected
	StatusAPListening ConnectionStatus = 8
	StatusAPConnected ConnectionStatus = 9
	StatusAPFailed    ConnectionStatus = 10
	StatusNoShield    ConnectionStatus = 255
)

func (s ConnectionStatus) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusNoSSIDAvail:
		return "no ssid available"
	case StatusScanCompleted:
		return "scan completed"
	case StatusConnected:
		return "connected"
	case StatusConnectFailed:
		return "connect failed"
	case StatusConnectionLost:
		return "connection lost"
	case StatusDisconnected:
		return "disconnected"
	case StatusAPListening:
		return "ap listening"
	case StatusAPConnected:
		return "ap connected"
	case StatusAPFailed:
		return "ap failed"
	case StatusNoShield:
		return "no shield"
	default:
		return fmt.Sprintf("status(%d)", byte(s))
	}
}

// ClientState is a TCP client socket's connection state, as returned
// by GetClientStateTcp.
type ClientState byte

const (
	ClientClosed ClientState = iota
	ClientListen
	ClientSynSent
	ClientSynRcvd
	ClientEstablished
	ClientFinWait1
	ClientFinWait2
	ClientCloseWait
	ClientClosing
	ClientLastAck
	ClientTimeWait
)

func (s ClientState) String() string {
	switch s {
	case ClientClosed:
		return "closed"
	case ClientListen:
		return "listen"
	case ClientSynSent:
		return "syn sent"
	case ClientSynRcvd:
		return "syn received"
	case ClientEstablished:
		return "established"
	case ClientFinWait1:
		return "fin wait 1"
	case ClientFinWait2:
		return "fin wait 2"
	case ClientCloseWait:
		return "close wait"
	case ClientClosing:
		return "closing"
	case ClientLastAck:
		return "last ack"
	case ClientTimeWait:
		return "time wait"
	default:
		return fmt.Sprintf("state(%d)", byte(s))
	}
}

// TransportMode selects the protocol StartClientTcp brings a socket up
// in.
type TransportMode byte

const (
	ModeTCP TransportMode = iota
	ModeUDP
	ModeTLS
	ModeTCPUnencrypted
)
