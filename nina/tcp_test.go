package nina

import (
	"testing"

	"ninadrv.dev/nina/ninasim"
)

func paddingDummies(op Operation) []byte {
	params := op.Params()
	if len(params) == 0 {
		return nil
	}
	size := 4
	for _, p := range params {
		size += int(p.Width()) + p.Len()
	}
	var pad []byte
	for size%4 != 0 {
		pad = append(pad, controlDummy)
		size++
	}
	return pad
}

func wideReply(cmd Command, payload []byte) []byte {
	out := []byte{controlStart, byte(cmd) | controlReplyFlag, 0x01, byte(len(payload) >> 8), byte(len(payload))}
	out = append(out, payload...)
	return append(out, controlEnd)
}

func TestReceiveDataChunkedWithGapQuirk(t *testing.T) {
	const socket Socket = 3
	const available = 5743
	const chunkLen = 2872

	availOp := NewOperation(cmdAvailDataTcp).Param(NewByteParam(byte(socket)))
	sockParam, _ := NewLargeArrayParam([]byte{byte(socket)})
	lenBytes := splitWord(uint16(available))
	lenParam, _ := NewLargeArrayParam(lenBytes[:])
	bufOp := NewOperation(cmdGetDataBufTcp).Param(sockParam).Param(lenParam)

	chunk := make([]byte, chunkLen)
	for i := range chunk {
		chunk[i] = byte(i)
	}

	var replies []byte
	replies = append(replies, paddingDummies(availOp)...)
	replies = append(replies, smallReply(cmdAvailDataTcp, []byte{0, 0})...) // first poll: nothing buffered
	replies = append(replies, paddingDummies(availOp)...)
	replies = append(replies, smallReply(cmdAvailDataTcp, []byte{0x70, 0x16})...) // 5744, clamped to 5743
	replies = append(replies, paddingDummies(bufOp)...)
	replies = append(replies, wideReply(cmdGetDataBufTcp, chunk)...)
	replies = append(replies, paddingDummies(bufOp)...)
	replies = append(replies, wideReply(cmdGetDataBufTcp, chunk)...)

	e, _, _ := newTestEngine(replies)
	delay := &ninasim.Delay{}

	ChunkGapQuirk = true
	result, err := ReceiveData(e, socket, delay)
	if err != nil {
		t.Fatal(err)
	}
	if len(result) != available {
		t.Fatalf("len(result) = %d, want %d", len(result), available)
	}
	if len(delay.Sleeps) != 2 || delay.Sleeps[0] != 50 || delay.Sleeps[1] != 50 {
		t.Fatalf("delay.Sleeps = %v, want two 50ms polls", delay.Sleeps)
	}
	// First chunk's payload lands at the front, undisturbed.
	for i := 0; i < chunkLen-1; i++ {
		if result[i] != chunk[i] {
			t.Fatalf("result[%d] = %d, want %d", i, result[i], chunk[i])
		}
	}
	// The quirk leaves a one-byte gap before the second chunk's payload
	// resumes, so the trailing bytes of the clamped buffer are shifted
	// by one relative to the raw chunk.
	if result[available-1] != chunk[chunkLen-2] {
		t.Fatalf("tail byte = %d, want %d", result[available-1], chunk[chunkLen-2])
	}
	if result[chunkLen-1] != 0 {
		t.Fatalf("result[%d] = %d, want 0 (the quirk's one-byte gap)", chunkLen-1, result[chunkLen-1])
	}
}
