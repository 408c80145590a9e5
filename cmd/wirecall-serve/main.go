// wirecall-serve is a minimal accept-side peer: it validates handshakes for
// one contract and echoes call frames back. It exists so the dial tool and
// integration setups have something real to connect to.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"os"

	"go.uber.org/zap"

	"wirecall/pkg/config"
	"wirecall/pkg/handshake"
	"wirecall/pkg/observability"
	"wirecall/pkg/protocol"
	"wirecall/pkg/protocol/stream"
)

func main() {
	cfgPath := flag.String("config", "", "path to YAML config")
	addr := flag.String("addr", "127.0.0.1:4040", "address to listen on")
	contract := flag.String("contract", "", "service contract to serve (overrides config)")
	user := flag.String("user", "", "required username; empty disables auth")
	pass := flag.String("pass", "", "required password")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger, err := observability.SetupLogger(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	served := cfg.Contract
	if *contract != "" {
		served = *contract
	}
	var creds *handshake.Credentials
	if *user != "" || *pass != "" {
		creds = &handshake.Credentials{Username: *user, Password: *pass}
	}

	l, err := net.Listen("tcp", *addr)
	if err != nil {
		zap.L().Fatal("listen", zap.Error(err))
	}
	defer l.Close()
	zap.L().Info("serving", zap.String("addr", l.Addr().String()), zap.String("contract", served))

	verify := handshake.StaticVerifier(served, creds)
	for {
		conn, err := l.Accept()
		if err != nil {
			zap.L().Warn("accept", zap.Error(err))
			return
		}
		go serve(conn, served, verify)
	}
}

func serve(conn net.Conn, contract string, verify handshake.VerifyFunc) {
	sc := stream.New(conn)
	defer sc.Close()

	hello, err := handshake.Respond(sc, contract, verify)
	if err != nil {
		zap.L().Warn("handshake rejected",
			zap.String("remote", conn.RemoteAddr().String()),
			zap.Error(err))
		return
	}
	zap.L().Info("handshake accepted",
		zap.String("remote", conn.RemoteAddr().String()),
		zap.String("contract", hello.Contract))

	for {
		var m protocol.Message
		if err := sc.Recv(&m); err != nil {
			if !errors.Is(err, io.EOF) {
				zap.L().Debug("recv", zap.Error(err))
			}
			return
		}
		if m.Header.Type != protocol.MsgCall {
			zap.L().Debug("dropping frame", zap.Uint8("type", m.Header.Type))
			continue
		}
		reply := protocol.Message{
			Header: protocol.Header{
				Version:     m.Header.Version,
				Type:        protocol.MsgReply,
				Flags:       m.Header.Flags,
				Correlation: m.Header.Correlation,
			},
			Payload: m.Payload,
		}
		if err := sc.Send(&reply); err != nil {
			zap.L().Debug("send", zap.Error(err))
			return
		}
	}
}
