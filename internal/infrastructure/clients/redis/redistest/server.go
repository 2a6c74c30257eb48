// Package redistest runs an in-process Redis double speaking RESP2. It covers
// the counter, expiry and pub/sub commands the API uses.
package redistest

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"net"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	redisclient "github.com/zatekoja/clinicbooking/backend/internal/infrastructure/clients/redis"
)

// Server is a Redis double listening on a loopback port
type Server struct {
	listener net.Listener

	mu          sync.Mutex
	counters    map[string]int64
	expiry      map[string]time.Time
	subscribers map[string]map[*serverConn]struct{}
	conns       map[*serverConn]struct{}
	now         time.Time
	commands    map[string]int

	wg sync.WaitGroup
}

type serverConn struct {
	net.Conn
	writeMu  sync.Mutex
	channels map[string]struct{}
	queue    [][]string
	inMulti  bool
}

// NewServer starts a server that stops when the test ends
func NewServer(t testing.TB) *Server {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := &Server{
		listener:    listener,
		counters:    make(map[string]int64),
		expiry:      make(map[string]time.Time),
		subscribers: make(map[string]map[*serverConn]struct{}),
		conns:       make(map[*serverConn]struct{}),
		now:         time.Now(),
		commands:    make(map[string]int),
	}

	s.wg.Add(1)
	go s.serve()

	t.Cleanup(s.Close)
	return s
}

// Addr returns host:port of the listener
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

// Client returns a client for the server that is closed when the test ends
func (s *Server) Client(t testing.TB) *redisclient.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr:            s.Addr(),
		Protocol:        2,
		DisableIdentity: true,
	})
	t.Cleanup(func() { _ = client.Close() })
	return redisclient.NewClientFromRedis(client)
}

// FastForward moves the server clock, expiring keys whose time has passed
func (s *Server) FastForward(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = s.now.Add(d)
}

// Subscribers reports how many connections listen on channel
func (s *Server) Subscribers(channel string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subscribers[channel])
}

// CommandCount reports how often a command was executed, by upper-case name
func (s *Server) CommandCount(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commands[name]
}

// Close stops the listener and waits for open connections to finish
func (s *Server) Close() {
	_ = s.listener.Close()
	s.mu.Lock()
	for c := range s.conns {
		_ = c.Close()
	}
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *Server) serve() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return
		}
		c := &serverConn{Conn: conn, channels: make(map[string]struct{})}
		s.mu.Lock()
		s.conns[c] = struct{}{}
		s.mu.Unlock()

		s.wg.Add(1)
		go s.handle(c)
	}
}

func (s *Server) handle(c *serverConn) {
	defer s.wg.Done()
	defer s.drop(c)

	reader := bufio.NewReader(c)
	for {
		args, err := readCommand(reader)
		if err != nil {
			return
		}
		if len(args) == 0 {
			continue
		}
		if err := c.write(s.dispatch(c, args)); err != nil {
			return
		}
	}
}

func (s *Server) drop(c *serverConn) {
	_ = c.Close()

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conns, c)
	for channel := range c.channels {
		delete(s.subscribers[channel], c)
		if len(s.subscribers[channel]) == 0 {
			delete(s.subscribers, channel)
		}
	}
}

func (s *Server) dispatch(c *serverConn, args []string) string {
	name := strings.ToUpper(args[0])

	switch name {
	case "MULTI":
		c.inMulti = true
		c.queue = nil
		return simple("OK")
	case "EXEC":
		if !c.inMulti {
			return errorReply("ERR EXEC without MULTI")
		}
		queued := c.queue
		c.inMulti = false
		c.queue = nil

		var reply strings.Builder
		reply.WriteString(fmt.Sprintf("*%d\r\n", len(queued)))
		for _, cmd := range queued {
			reply.WriteString(s.exec(c, cmd))
		}
		return reply.String()
	case "DISCARD":
		c.inMulti = false
		c.queue = nil
		return simple("OK")
	}

	if c.inMulti {
		c.queue = append(c.queue, args)
		return simple("QUEUED")
	}
	return s.exec(c, args)
}

func (s *Server) exec(c *serverConn, args []string) string {
	name := strings.ToUpper(args[0])

	s.mu.Lock()
	defer s.mu.Unlock()
	s.commands[name]++

	switch name {
	case "PING":
		if len(c.channels) > 0 {
			return "*2\r\n" + bulk("pong") + bulk("")
		}
		return simple("PONG")
	case "INCR":
		if len(args) != 2 {
			return wrongArgs(name)
		}
		s.expireLocked(args[1])
		s.counters[args[1]]++
		return integer(s.counters[args[1]])
	case "EXPIRE":
		return s.expireCommandLocked(args)
	case "TTL":
		if len(args) != 2 {
			return wrongArgs(name)
		}
		s.expireLocked(args[1])
		if _, ok := s.counters[args[1]]; !ok {
			return integer(-2)
		}
		deadline, ok := s.expiry[args[1]]
		if !ok {
			return integer(-1)
		}
		return integer(int64(math.Round(deadline.Sub(s.now).Seconds())))
	case "PUBLISH":
		if len(args) != 3 {
			return wrongArgs(name)
		}
		message := "*3\r\n" + bulk("message") + bulk(args[1]) + bulk(args[2])
		for sub := range s.subscribers[args[1]] {
			_ = sub.write(message)
		}
		return integer(int64(len(s.subscribers[args[1]])))
	case "SUBSCRIBE":
		var reply strings.Builder
		for _, channel := range args[1:] {
			if s.subscribers[channel] == nil {
				s.subscribers[channel] = make(map[*serverConn]struct{})
			}
			s.subscribers[channel][c] = struct{}{}
			c.channels[channel] = struct{}{}
			reply.WriteString("*3\r\n" + bulk("subscribe") + bulk(channel) + integer(int64(len(c.channels))))
		}
		return reply.String()
	case "UNSUBSCRIBE":
		var reply strings.Builder
		for _, channel := range args[1:] {
			delete(s.subscribers[channel], c)
			if len(s.subscribers[channel]) == 0 {
				delete(s.subscribers, channel)
			}
			delete(c.channels, channel)
			reply.WriteString("*3\r\n" + bulk("unsubscribe") + bulk(channel) + integer(int64(len(c.channels))))
		}
		return reply.String()
	default:
		return errorReply(fmt.Sprintf("ERR unknown command '%s'", args[0]))
	}
}

func (s *Server) expireCommandLocked(args []string) string {
	if len(args) < 3 {
		return wrongArgs("EXPIRE")
	}
	key := args[1]
	seconds, err := strconv.ParseInt(args[2], 10, 64)
	if err != nil {
		return errorReply("ERR value is not an integer or out of range")
	}

	s.expireLocked(key)
	if _, ok := s.counters[key]; !ok {
		return integer(0)
	}
	if len(args) > 3 && strings.EqualFold(args[3], "NX") {
		if _, ok := s.expiry[key]; ok {
			return integer(0)
		}
	}
	s.expiry[key] = s.now.Add(time.Duration(seconds) * time.Second)
	return integer(1)
}

func (s *Server) expireLocked(key string) {
	deadline, ok := s.expiry[key]
	if ok && !s.now.Before(deadline) {
		delete(s.counters, key)
		delete(s.expiry, key)
	}
}

func (c *serverConn) write(reply string) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_, err := io.WriteString(c.Conn, reply)
	return err
}

func readCommand(r *bufio.Reader) ([]string, error) {
	line, err := readLine(r)
	if err != nil {
		return nil, err
	}
	if len(line) == 0 || line[0] != '*' {
		return strings.Fields(line), nil
	}

	n, err := strconv.Atoi(line[1:])
	if err != nil {
		return nil, fmt.Errorf("bad array header %q", line)
	}
	args := make([]string, 0, n)
	for i := 0; i < n; i++ {
		header, err := readLine(r)
		if err != nil {
			return nil, err
		}
		if len(header) == 0 || header[0] != '$' {
			return nil, fmt.Errorf("bad bulk header %q", header)
		}
		size, err := strconv.Atoi(header[1:])
		if err != nil {
			return nil, fmt.Errorf("bad bulk header %q", header)
		}
		buf := make([]byte, size+2)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, err
		}
		args = append(args, string(buf[:size]))
	}
	return args, nil
}

func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		return "", err
	}
	if !strings.HasSuffix(line, "\r\n") {
		return "", errors.New("line without CRLF")
	}
	return strings.TrimSuffix(line, "\r\n"), nil
}

func simple(s string) string { return "+" + s + "\r\n" }

func errorReply(s string) string { return "-" + s + "\r\n" }

func integer(n int64) string { return ":" + strconv.FormatInt(n, 10) + "\r\n" }

func bulk(s string) string { return "$" + strconv.Itoa(len(s)) + "\r\n" + s + "\r\n" }

func wrongArgs(name string) string {
	return errorReply(fmt.Sprintf("ERR wrong number of arguments for '%s' command", strings.ToLower(name)))
}
