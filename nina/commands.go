package nina

import "fmt"

// Command catalog: the contracts a façade built on top of Engine
// depends on. Each is a single round (one Execute followed by one
// Receive/ReceiveData16); expected reply-parameter count is 1 unless
// noted. Command codes are the peer firmware's fixed enumeration.
const (
	cmdSetPassphrase     Command = 0x11
	cmdSetDNSConfig      Command = 0x15
	cmdGetConnStatus     Command = 0x20
	cmdAvailDataTcp      Command = 0x2b
	cmdStartClientTcp    Command = 0x2d
	cmdStopClientTcp     Command = 0x2e
	cmdGetClientStateTcp Command = 0x2f
	cmdDisconnect        Command = 0x30
	cmdReqHostByName     Command = 0x34
	cmdGetHostByName     Command = 0x35
	cmdGetFwVersion      Command = 0x37
	cmdGetSocket         Command = 0x3f
	cmdSendDataTcp       Command = 0x44
	cmdGetDataBufTcp     Command = 0x45
)

// GetFwVersion reports the coprocessor's firmware version.
func GetFwVersion(e *Engine) (FirmwareVersion, error) {
	op := NewOperation(cmdGetFwVersion)
	if err := e.Execute(op); err != nil {
		return FirmwareVersion{}, err
	}
	resp, err := e.Receive(op, 1)
	if err != nil {
		return FirmwareVersion{}, err
	}
	return ParseFirmwareVersion(resp)
}

// SetPassphrase joins a WPA network by SSID and passphrase.
func SetPassphrase(e *Engine, ssid, passphrase string) error {
	ssidParam, err := NewSmallArrayParamString(ssid)
	if err != nil {
		return err
	}
	passParam, err := NewSmallArrayParamString(passphrase)
	if err != nil {
		return err
	}
	op := NewOperation(cmdSetPassphrase).Param(ssidParam).Param(passParam)
	if err := e.Execute(op); err != nil {
		return err
	}
	_, err = e.Receive(op, 1)
	return err
}

// GetConnStatus reports the current Wi-Fi association state.
func GetConnStatus(e *Engine) (ConnectionStatus, error) {
	op := NewOperation(cmdGetConnStatus)
	if err := e.Execute(op); err != nil {
		return 0, err
	}
	resp, err := e.Receive(op, 1)
	if err != nil {
		return 0, err
	}
	return ConnectionStatus(resp[0]), nil
}

// Disconnect tears down the current Wi-Fi association.
func Disconnect(e *Engine) error {
	op := NewOperation(cmdDisconnect).Param(NewByteParam(controlDummy))
	if err := e.Execute(op); err != nil {
		return err
	}
	_, err := e.Receive(op, 1)
	return err
}

// SetDNSConfig sets the primary (and optional secondary) DNS server.
func SetDNSConfig(e *Engine, primary IPv4, secondary *IPv4) error {
	var sec IPv4
	if secondary != nil {
		sec = *secondary
	}
	primaryParam, err := NewSmallArrayParam(primary[:])
	if err != nil {
		return err
	}
	secParam, err := NewSmallArrayParam(sec[:])
	if err != nil {
		return err
	}
	op := NewOperation(cmdSetDNSConfig).
		Param(NewByteParam(1)).
		Param(primaryParam).
		Param(secParam)
	if err := e.Execute(op); err != nil {
		return err
	}
	_, err = e.Receive(op, 1)
	return err
}

// ReqHostByName begins an asynchronous DNS lookup. Call GetHostByName
// to retrieve the result.
func ReqHostByName(e *Engine, hostname string) error {
	param, err := NewSmallArrayParamString(hostname)
	if err != nil {
		return err
	}
	op := NewOperation(cmdReqHostByName).Param(param)
	if err := e.Execute(op); err != nil {
		return err
	}
	resp, err := e.Receive(op, 1)
	if err != nil {
		return err
	}
	if resp[0] != 1 {
		return fmt.Errorf("nina: req host by name: %w", netErr(DnsResolveFailed))
	}
	return nil
}

// GetHostByName retrieves the result of a prior ReqHostByName.
func GetHostByName(e *Engine) (IPv4, error) {
	op := NewOperation(cmdGetHostByName)
	if err := e.Execute(op); err != nil {
		return IPv4{}, err
	}
	resp, err := e.Receive(op, 1)
	if err != nil {
		return IPv4{}, err
	}
	var ip IPv4
	copy(ip[:], resp)
	if ip == (IPv4{255, 255, 255, 255}) {
		return IPv4{}, fmt.Errorf("nina: get host by name: %w", netErr(DnsResolveFailed))
	}
	return ip, nil
}

// Resolve is ReqHostByName followed by GetHostByName, mirroring the
// peer firmware's two-step DNS protocol as a single call.
func Resolve(e *Engine, hostname string) (IPv4, error) {
	if err := ReqHostByName(e, hostname); err != nil {
		return IPv4{}, err
	}
	return GetHostByName(e)
}

// GetSocket allocates a coprocessor socket handle.
func GetSocket(e *Engine) (Socket, error) {
	op := NewOperation(cmdGetSocket)
	if err := e.Execute(op); err != nil {
		return 0, err
	}
	resp, err := e.Receive(op, 1)
	if err != nil {
		return 0, err
	}
	return Socket(resp[0]), nil
}

// StartClientTcp opens socket to ip:port in the given transport mode.
func StartClientTcp(e *Engine, socket Socket, ip IPv4, port Port, mode TransportMode) error {
	ipParam, err := NewSmallArrayParam(ip[:])
	if err != nil {
		return err
	}
	portBytes := splitWord(uint16(port))
	portParam := NewWordParam(portBytes[0], portBytes[1])
	op := NewOperation(cmdStartClientTcp).
		Param(ipParam).
		Param(portParam).
		Param(NewByteParam(byte(socket))).
		Param(NewByteParam(byte(mode)))
	if err := e.Execute(op); err != nil {
		return err
	}
	resp, err := e.Receive(op, 1)
	if err != nil {
		return err
	}
	if resp[0] != 1 {
		return fmt.Errorf("nina: start client tcp: %w", netErr(ConnectFailed))
	}
	return nil
}

// StopClientTcp closes socket.
func StopClientTcp(e *Engine, socket Socket) error {
	op := NewOperation(cmdStopClientTcp).Param(NewByteParam(byte(socket)))
	if err := e.Execute(op); err != nil {
		return err
	}
	resp, err := e.Receive(op, 1)
	if err != nil {
		return err
	}
	if resp[0] != 1 {
		return fmt.Errorf("nina: stop client tcp: %w", netErr(DisconnectFailed))
	}
	return nil
}

// GetClientStateTcp reports socket's TCP connection state.
func GetClientStateTcp(e *Engine, socket Socket) (ClientState, error) {
	op := NewOperation(cmdGetClientStateTcp).Param(NewByteParam(byte(socket)))
	if err := e.Execute(op); err != nil {
		return 0, err
	}
	resp, err := e.Receive(op, 1)
	if err != nil {
		return 0, err
	}
	return ClientState(resp[0]), nil
}

// SendDataTcp writes data to socket and reports the number of bytes
// the peer accepted.
func SendDataTcp(e *Engine, socket Socket, data []byte) (int, error) {
	sockParam, err := NewLargeArrayParam([]byte{byte(socket)})
	if err != nil {
		return 0, err
	}
	dataParam, err := NewLargeArrayParam(data)
	if err != nil {
		return 0, err
	}
	op := NewOperation(cmdSendDataTcp).Param(sockParam).Param(dataParam)
	if err := e.Execute(op); err != nil {
		return 0, err
	}
	resp, err := e.Receive(op, 1)
	if err != nil {
		return 0, err
	}
	return int(resp[0]), nil
}

// AvailDataTcp reports the number of bytes buffered for socket. The
// peer encodes the length little-endian; a reported length of exactly
// MaxResponseLen is a known peer off-by-one and is clamped to
// MaxResponseLen-1 so callers never see an impossible full-buffer
// reading.
func AvailDataTcp(e *Engine, socket Socket) (int, error) {
	op := NewOperation(cmdAvailDataTcp).Param(NewByteParam(byte(socket)))
	if err := e.Execute(op); err != nil {
		return 0, err
	}
	resp, err := e.Receive(op, 1)
	if err != nil {
		return 0, err
	}
	n := int(combine2Bytes(resp[0], resp[1]))
	if n == MaxResponseLen {
		n = MaxResponseLen - 1
	}
	return n, nil
}

// GetDataBufTcp reads up to requestedLen bytes buffered for socket,
// returning the wide-length framed payload the peer actually sent.
func GetDataBufTcp(e *Engine, socket Socket, requestedLen int) (int, []byte, error) {
	sockParam, err := NewLargeArrayParam([]byte{byte(socket)})
	if err != nil {
		return 0, nil, err
	}
	lenBytes := splitWord(uint16(requestedLen))
	lenParam, err := NewLargeArrayParam(lenBytes[:])
	if err != nil {
		return 0, nil, err
	}
	op := NewOperation(cmdGetDataBufTcp).Param(sockParam).Param(lenParam)
	if err := e.Execute(op); err != nil {
		return 0, nil, err
	}
	return e.ReceiveData16(op, 1)
}
