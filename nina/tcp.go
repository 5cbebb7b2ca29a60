package nina

// ChunkGapQuirk controls whether ReceiveData preserves a one-byte gap
// between chunks: the receive loop advances its write index by the
// full chunk length after copying only chunk_len-1 payload bytes,
// leaving one zero byte before the next chunk's data. It defaults to
// true, matching the peer firmware's observed behavior; set it to
// false only once that firmware's chunk framing is confirmed not to
// rely on the gap.
var ChunkGapQuirk = true

// ReceiveData drains up to MaxResponseLen bytes buffered for socket:
// it polls AvailDataTcp (sleeping Delay between polls, required to
// avoid desynchronizing the peer's command/response state machine),
// then issues repeated GetDataBufTcp chunks until the reported length
// is exhausted or the fixed buffer budget is reached.
func ReceiveData(e *Engine, socket Socket, delay Delayer) ([]byte, error) {
	var available int
	for {
		delay.DelayMs(50)
		n, err := AvailDataTcp(e, socket)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			available = n
			break
		}
	}

	result := make([]byte, MaxResponseLen)
	consumed := 0
	written := 0
	for consumed < available && consumed < MaxResponseLen {
		chunkLen, chunk, err := GetDataBufTcp(e, socket, available)
		if err != nil {
			return nil, err
		}
		if chunkLen == 0 {
			break
		}
		copyLen := chunkLen
		if ChunkGapQuirk {
			// The peer's framing trails one byte per chunk that carries
			// no payload; drop it, but still advance the write index by
			// the full chunk length, leaving a one-byte hole.
			copyLen = chunkLen - 1
		}
		if written+copyLen > len(result) {
			copyLen = len(result) - written
		}
		copy(result[written:], chunk[:copyLen])
		written += copyLen
		if ChunkGapQuirk {
			written++
		}
		consumed += chunkLen
	}
	// The returned length is the peer-declared total, not the
	// (possibly larger, due to the gap quirk above) internal write
	// index: downstream consumers are expected to tolerate the holes.
	total := available
	if total > MaxResponseLen {
		total = MaxResponseLen
	}
	if total > len(result) {
		total = len(result)
	}
	return result[:total], nil
}
