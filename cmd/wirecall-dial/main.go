package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"wirecall/pkg/channel"
	"wirecall/pkg/endpoint"
	"wirecall/pkg/protocol"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:4040", "address to connect to (host:port)")
	contract := flag.String("contract", "wirecall.Echo", "service contract identity to assert")
	user := flag.String("user", "", "username for the secure variant")
	pass := flag.String("pass", "", "password for the secure variant")
	timeout := flag.Duration("timeout", 5*time.Second, "connect timeout")
	msg := flag.String("message", "hello wirecall", "test payload to echo after handshake")
	flag.Parse()

	logger, _ := zap.NewDevelopment()
	zap.ReplaceGlobals(logger)
	defer logger.Sync()

	ep, err := endpoint.Parse(*addr)
	if err != nil {
		fatalf("parse addr: %v", err)
	}

	opts := []channel.Option{
		channel.WithContract(*contract),
		channel.WithTimeout(*timeout),
	}
	if *user != "" || *pass != "" {
		opts = append(opts, channel.WithCredentials(*user, *pass))
	}

	ch, err := channel.Dial(ep, opts...)
	if err != nil {
		fatalf("dial: %v", err)
	}
	defer ch.Close()
	zap.L().Info("channel ready",
		zap.String("endpoint", ch.ID().String()),
		zap.Uint64("endpoint_hash", ch.ID().Hash()),
		zap.Bool("alive", ch.IsAlive()))

	corr, err := protocol.NewCorrelation()
	if err != nil {
		fatalf("correlation: %v", err)
	}
	call := protocol.Message{
		Header:  protocol.Header{Version: 1, Type: protocol.MsgCall, Correlation: corr},
		Payload: []byte(*msg),
	}
	if err := ch.Stream().Send(&call); err != nil {
		fatalf("send: %v", err)
	}
	var reply protocol.Message
	if err := ch.Stream().Recv(&reply); err != nil {
		fatalf("recv: %v", err)
	}
	fmt.Printf("reply (%d bytes): %s\n", len(reply.Payload), reply.Payload)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
