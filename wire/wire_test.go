package wire

import (
	"bytes"
	"errors"
	"testing"

	"github.com/vmihailenco/msgpack/v5"
)

func TestDecode_FullMessage(t *testing.T) {
	screen := make([]byte, ScreenBytes)
	screen[0] = 0x80
	screen[255] = 0x01
	data, err := Encode(Message{Screen: screen, Keys: 0x0002, Sound: true})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	msg, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(msg.Screen, screen) {
		t.Fatalf("screen mismatch")
	}
	if msg.Keys != 0x0002 {
		t.Fatalf("expected keys 0x0002, got 0x%04X", msg.Keys)
	}
	if !msg.Sound {
		t.Fatal("expected sound on")
	}
}

func TestDecode_NilScreen(t *testing.T) {
	data, err := Encode(Message{Keys: 5})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	msg, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if msg.Screen != nil {
		t.Fatalf("expected nil screen, got %d bytes", len(msg.Screen))
	}
}

func TestDecode_MissingScreenKey(t *testing.T) {
	// Senders may omit the field entirely rather than writing nil.
	data, err := msgpack.Marshal(map[string]any{"keys": 3, "sound": false})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	msg, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if msg.Screen != nil || msg.Keys != 3 || msg.Sound {
		t.Fatalf("unexpected message %+v", msg)
	}
}

func TestDecode_Garbage(t *testing.T) {
	_, err := Decode([]byte{0xC1, 0x00, 0x13})
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("expected DecodeError, got %v", err)
	}
}

func TestDecode_Empty(t *testing.T) {
	if _, err := Decode(nil); err == nil {
		t.Fatal("expected error for empty datagram")
	}
}

func TestDecode_KeysOutOfRange(t *testing.T) {
	data, err := msgpack.Marshal(map[string]any{"keys": 0x10000, "sound": false})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	_, err = Decode(data)
	if !errors.Is(err, ErrKeysRange) {
		t.Fatalf("expected ErrKeysRange, got %v", err)
	}
}

func TestEncode_KeysOutOfRange(t *testing.T) {
	if _, err := Encode(Message{Keys: -1}); !errors.Is(err, ErrKeysRange) {
		t.Fatalf("expected ErrKeysRange, got %v", err)
	}
}

func TestEncode_FitsDatagramBuffer(t *testing.T) {
	data, err := Encode(Message{Screen: bytes.Repeat([]byte{0xFF}, ScreenBytes), Keys: MaxKeys, Sound: true})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(data) > 1024 {
		t.Fatalf("encoded message is %d bytes, exceeds 1 KiB receive buffer", len(data))
	}
}
