// wire.go - MessagePack peripheral state messages

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
License: GPLv3 or later
*/

// Package wire encodes and decodes the peripheral state datagrams sent by the
// CHIP-8 emulator. Each datagram carries one MessagePack map:
//
//	screen  bin, 256 bytes (64x32, 1 bit per pixel, MSB first), or nil
//	keys    int, 0-65535, bit n set while hex key n is held
//	sound   bool, true while the sound timer is running
package wire

import (
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

const (
	ScreenBytes = 256
	MaxKeys     = 0xFFFF
)

var ErrKeysRange = errors.New("keys out of range")

type Message struct {
	Screen []byte `msgpack:"screen"`
	Keys   int    `msgpack:"keys"`
	Sound  bool   `msgpack:"sound"`
}

// DecodeError reports a datagram that could not be turned into a Message.
type DecodeError struct {
	Details string
	Err     error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("wire decode failed: %s: %v", e.Details, e.Err)
	}
	return fmt.Sprintf("wire decode failed: %s", e.Details)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Decode parses one datagram payload. The screen length is not checked here;
// a wrong-sized bitmap is the receiver's decision.
func Decode(data []byte) (Message, error) {
	var msg Message
	if len(data) == 0 {
		return msg, &DecodeError{Details: "empty datagram"}
	}
	if err := msgpack.Unmarshal(data, &msg); err != nil {
		return Message{}, &DecodeError{Details: fmt.Sprintf("%d byte payload", len(data)), Err: err}
	}
	if msg.Keys < 0 || msg.Keys > MaxKeys {
		return Message{}, &DecodeError{Details: fmt.Sprintf("keys=%d", msg.Keys), Err: ErrKeysRange}
	}
	return msg, nil
}

func Encode(msg Message) ([]byte, error) {
	if msg.Keys < 0 || msg.Keys > MaxKeys {
		return nil, fmt.Errorf("wire encode: keys=%d: %w", msg.Keys, ErrKeysRange)
	}
	return msgpack.Marshal(&msg)
}
