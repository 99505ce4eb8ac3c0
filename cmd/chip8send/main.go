package main

import (
	"flag"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/intuitionamiga/chip8screen/wire"
)

func main() {
	addr := flag.String("addr", "224.0.0.8:9999", "Destination host:port (unicast or multicast)")
	pattern := flag.String("pattern", "checker", "Test pattern to send")
	keys := flag.String("keys", "0", "Key mask, e.g. 0x0002 for key 1")
	sound := flag.Bool("sound", false, "Set the sound flag")
	noScreen := flag.Bool("no-screen", false, "Omit the bitmap so the display keeps its last picture")
	count := flag.Int("count", 1, "Number of datagrams to send (0 sends until interrupted)")
	interval := flag.Duration("interval", 100*time.Millisecond, "Delay between datagrams")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: chip8send [options]\n\nSends CHIP-8 peripheral state datagrams to a chip8screen.\n\nOptions:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nPatterns: %v\n", PatternNames())
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  chip8send -pattern checker -count 0\n")
		fmt.Fprintf(os.Stderr, "  chip8send -addr 127.0.0.1:9999 -pattern border -keys 0x0002 -sound\n")
	}
	flag.Parse()

	gen, err := LookupPattern(*pattern)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	keyMask, err := strconv.ParseUint(*keys, 0, 16)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: -keys: %v\n", err)
		os.Exit(1)
	}

	raddr, err := net.ResolveUDPAddr("udp", *addr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	conn, err := net.DialUDP("udp", nil, raddr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close()

	sent := 0
	for n := 0; *count == 0 || n < *count; n++ {
		msg := wire.Message{Keys: int(keyMask), Sound: *sound}
		if !*noScreen {
			msg.Screen = gen(n)
		}
		data, err := wire.Encode(msg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		if _, err := conn.Write(data); err != nil {
			fmt.Fprintf(os.Stderr, "error sending to %v: %v\n", raddr, err)
			os.Exit(1)
		}
		sent++
		if *count == 0 || n+1 < *count {
			time.Sleep(*interval)
		}
	}
	fmt.Printf("Sent %d datagram(s) to %v\n", sent, raddr)
}
