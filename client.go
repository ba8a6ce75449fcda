package main

import (
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"merge3/logger"
)

// Client relays neovim's stdio to a socket daemon
type Client struct {
	socketPath string
	configPath string
}

func NewClient(socketPath, configPath string) *Client {
	return &Client{
		socketPath: socketPath,
		configPath: configPath,
	}
}

func (c *Client) Connect() error {
	conn, err := net.Dial("unix", c.socketPath)
	if err != nil {
		return err
	}
	defer conn.Close()

	go func() {
		io.Copy(conn, os.Stdin)
		conn.Close()
	}()

	io.Copy(os.Stdout, conn)
	return nil
}

// isDaemonRunning reports whether something accepts connections on the socket
func (c *Client) isDaemonRunning() bool {
	conn, err := net.DialTimeout("unix", c.socketPath, 100*time.Millisecond)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

func (c *Client) EnsureDaemonRunning() error {
	if c.isDaemonRunning() {
		logger.Debug("daemon already listening on %s", c.socketPath)
		return nil
	}
	return c.startDaemon()
}

// daemonArgs is the command line of the daemon process. The daemon inherits
// the environment, so MERGE3_CONFIG carries over.
func (c *Client) daemonArgs() []string {
	args := []string{os.Args[0], "nvim", "--listen", c.socketPath}
	if c.configPath != "" {
		args = append(args, "--config", c.configPath)
	}
	return args
}

func (c *Client) startDaemon() error {
	logger.Debug("starting daemon...")

	_, err := os.StartProcess(os.Args[0], c.daemonArgs(), &os.ProcAttr{
		Env: os.Environ(),
		Files: []*os.File{
			nil, // stdin
			nil, // stdout
			nil, // stderr
		},
	})
	if err != nil {
		return fmt.Errorf("failed to start daemon: %w", err)
	}

	return c.waitForDaemon()
}

func (c *Client) waitForDaemon() error {
	for range 50 { // Wait up to 5 seconds
		if c.isDaemonRunning() {
			logger.Debug("daemon started successfully")
			return nil
		}
		time.Sleep(100 * time.Millisecond)
	}
	return fmt.Errorf("daemon failed to start within timeout")
}
