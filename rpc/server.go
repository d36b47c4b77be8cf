package pantryrpc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const readBufSize = 4096

// Server answers packets from TCP connections with a Handler.
type Server struct {
	handler *Handler
	logger  *zap.Logger

	mu    sync.Mutex
	conns map[net.Conn]struct{}
}

func NewServer(h *Handler, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		handler: h,
		logger:  logger,
		conns:   make(map[net.Conn]struct{}),
	}
}

// Serve accepts connections on ln until ctx is done or Accept fails. It
// closes ln and every open connection before returning.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		<-ctx.Done()
		ln.Close()
		s.closeConns()
		return nil
	})

	g.Go(func() error {
		for {
			conn, err := ln.Accept()
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("accept: %w", err)
			}
			if !s.track(conn) {
				conn.Close()
				return nil
			}
			g.Go(func() error {
				defer s.untrack(conn)
				if err := s.ServeConn(conn); err != nil {
					s.logger.Warn("connection closed with error",
						zap.String("remote", conn.RemoteAddr().String()),
						zap.Error(err))
				}
				return nil
			})
		}
	})

	return g.Wait()
}

// ServeConn handles one connection until the peer hangs up. It closes conn.
func (s *Server) ServeConn(conn net.Conn) error {
	defer conn.Close()

	var pb PacketBuffer
	buf := make([]byte, readBufSize)
	for {
		n, err := conn.Read(buf)
		if n > 0 {
			pkts, ferr := pb.Feed(buf[:n])
			for _, pkt := range pkts {
				if pkt.Type != TypeReq {
					continue
				}
				out, merr := Encode(s.handler.Handle(pkt))
				if merr != nil {
					return fmt.Errorf("encode response: %w", merr)
				}
				if _, werr := conn.Write(out); werr != nil {
					return fmt.Errorf("write response: %w", werr)
				}
			}
			if ferr != nil {
				return fmt.Errorf("decode request: %w", ferr)
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
	}
}

func (s *Server) track(conn net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conns == nil {
		return false
	}
	s.conns[conn] = struct{}{}
	return true
}

func (s *Server) untrack(conn net.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conns, conn)
}

func (s *Server) closeConns() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.conns {
		conn.Close()
	}
	s.conns = nil
}
