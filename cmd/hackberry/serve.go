package main

import (
	"fmt"
	"io"
	"net"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/blockberries/hackberry/pkg/hackberry"
)

var (
	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run a minimal frame-parsing TCP server",
		RunE:  runServe,
	}

	// Flags
	serveAddr string
	devLog    bool
)

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8290", "listen address")
	serveCmd.Flags().BoolVar(&devLog, "dev", false, "human-readable development logging")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	logConfig := zap.NewProductionConfig()
	if devLog {
		logConfig = zap.NewDevelopmentConfig()
	}
	logger, err := logConfig.Build()
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", serveAddr)
	if err != nil {
		return err
	}
	logger.Info("listening", zap.String("addr", ln.Addr().String()))

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	opts := parserOptions()
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				logger.Info("shutting down")
				return nil
			}
			return err
		}
		go handleConn(logger, conn, opts)
	}
}

// handleConn runs one buffer and one parser for the lifetime of a
// connection; frames interleaved across reads are reassembled by the buffer.
func handleConn(logger *zap.Logger, conn net.Conn, opts hackberry.Options) {
	defer conn.Close()
	logger = logger.With(zap.String("remote", conn.RemoteAddr().String()))
	logger.Info("connected")

	buf := hackberry.NewBuffer(0)
	defer buf.Release()
	parser := hackberry.NewParserWithOptions(opts)
	chunk := make([]byte, 4096)
	frames := 0

	for {
		n, err := conn.Read(chunk)
		if n > 0 {
			buf.Append(chunk[:n])
			if !drainFrames(logger, conn, parser, buf, &frames) {
				return
			}
		}
		if err != nil {
			if err != io.EOF {
				logger.Warn("read failed", zap.Error(err))
			} else if buf.ReadableBytes() > 0 {
				logger.Warn("connection closed mid-frame", zap.Int("pending_bytes", buf.ReadableBytes()))
			} else {
				logger.Info("closed", zap.Int("frames", frames))
			}
			return
		}
	}
}

// drainFrames parses every fully-buffered frame and answers each one.
// It returns false when the connection should be dropped.
func drainFrames(logger *zap.Logger, conn net.Conn, parser *hackberry.Parser, buf *hackberry.Buffer, frames *int) bool {
	for {
		msg, err := parser.TryParse(buf)
		if err != nil {
			if hackberry.IsIncomplete(err) {
				return true // wait for the next read
			}
			logger.Warn("dropping connection", zap.Error(err))
			respond(conn, "400", "Bad-Request", err.Error())
			return false
		}

		*frames++
		logger.Info("frame",
			zap.String("method", msg.Method),
			zap.String("target", msg.Target),
			zap.Int("header_count", len(msg.Header)),
			zap.Int("body_bytes", len(msg.Body)),
		)
		if err := respond(conn, "200", "OK", fmt.Sprintf("%s %s: %d body byte(s)\n", msg.Method, msg.Target, len(msg.Body))); err != nil {
			logger.Warn("write failed", zap.Error(err))
			return false
		}
	}
}

// respond writes a minimal response frame. The wire format is symmetric, so
// a status line is just another three-token start line.
func respond(conn net.Conn, code, reason, body string) error {
	m := hackberry.NewMessage("HTTP/1.1", code, reason)
	m.Header.Set("content-type", "text/plain; charset=utf-8")
	m.Body = []byte(body)

	wire, err := hackberry.EncodeFrame(m)
	if err != nil {
		return err
	}
	_, err = conn.Write(wire)
	return err
}
