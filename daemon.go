package main

import (
	"context"
	"errors"
	"io"
	"log"
	"net"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"merge3/logger"
	"merge3/plugin"
	"merge3/text"

	"github.com/neovim/go-client/nvim"
	"github.com/spf13/cobra"
)

// defaultIdleTimeout is how long a socket daemon waits without clients
// before shutting down
const defaultIdleTimeout = 30 * time.Second

func nvimCmd(flags *globalFlags) *cobra.Command {
	var (
		listen      string
		connect     string
		idleTimeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "nvim",
		Short: "Serve merge requests to neovim over msgpack-rpc",
		Long: `Serve the merge3_merge and merge3_merge_buffers rpc methods.

Without flags the host talks to neovim on stdin/stdout (jobstart with rpc = true).
--listen runs a shared daemon on a unix socket; --connect relays stdin/stdout to
that daemon, starting it first when it is not running.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := flags.resolve(cmd.Flags())
			if err != nil {
				return err
			}

			switch {
			case connect != "":
				client := NewClient(connect, flags.configPath)
				if err := client.EnsureDaemonRunning(); err != nil {
					return err
				}
				return client.Connect()
			case listen != "":
				ll, err := setupLogger(config)
				if err != nil {
					return err
				}
				defer ll.Close()
				return NewDaemon(listen, config.options(), idleTimeout).Start()
			default:
				ll, err := setupLogger(config)
				if err != nil {
					return err
				}
				defer ll.Close()
				return serveStdio(config.options())
			}
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "Serve on this unix socket")
	cmd.Flags().StringVar(&connect, "connect", "", "Relay stdio to the daemon on this unix socket")
	cmd.Flags().DurationVar(&idleTimeout, "idle-timeout", defaultIdleTimeout, "Shut the daemon down after this long without clients")
	cmd.MarkFlagsMutuallyExclusive("listen", "connect")
	return cmd
}

// serveStdio serves one neovim instance on the process's standard streams
func serveStdio(opts text.Options) error {
	logger.Info("serving neovim on stdio")
	return serve(os.Stdin, os.Stdout, os.Stdout, opts)
}

func serve(r io.Reader, w io.Writer, c io.Closer, opts text.Options) error {
	n, err := nvim.New(r, w, c, log.Printf)
	if err != nil {
		return err
	}
	if err := plugin.Register(n, opts); err != nil {
		return err
	}
	if err := n.Serve(); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Daemon serves merge requests to any number of neovim instances over a unix
// socket and exits after idleTimeout without clients.
type Daemon struct {
	opts        text.Options
	listener    net.Listener
	socketPath  string
	idleTimeout time.Duration
	clientCount int64
	ctx         context.Context
	cancel      context.CancelFunc
}

func NewDaemon(socketPath string, opts text.Options, idleTimeout time.Duration) *Daemon {
	ctx, cancel := context.WithCancel(context.Background())
	return &Daemon{
		opts:        opts,
		socketPath:  socketPath,
		idleTimeout: idleTimeout,
		ctx:         ctx,
		cancel:      cancel,
	}
}

func (d *Daemon) Start() error {
	if err := d.setupSocket(); err != nil {
		return err
	}
	defer d.cleanup()

	log.Printf("daemon listening on socket: %s (pid %d)", d.socketPath, os.Getpid())

	d.setupShutdownHandling()
	go d.acceptConnections()
	go d.monitorIdleShutdown()

	<-d.ctx.Done()
	log.Printf("daemon shutting down...")
	return nil
}

func (d *Daemon) setupSocket() error {
	os.Remove(d.socketPath)

	listener, err := net.Listen("unix", d.socketPath)
	if err != nil {
		return err
	}
	d.listener = listener
	return nil
}

func (d *Daemon) setupShutdownHandling() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigChan:
			log.Printf("received shutdown signal")
			d.Stop()
		case <-d.ctx.Done():
		}
		signal.Stop(sigChan)
	}()
}

func (d *Daemon) acceptConnections() {
	for {
		conn, err := d.listener.Accept()
		if err != nil {
			select {
			case <-d.ctx.Done():
				return
			default:
				log.Printf("error accepting connection: %v", err)
				continue
			}
		}

		atomic.AddInt64(&d.clientCount, 1)
		log.Printf("new client connected, total clients: %d", atomic.LoadInt64(&d.clientCount))
		go d.handleConnection(conn)
	}
}

func (d *Daemon) handleConnection(conn net.Conn) {
	defer conn.Close()
	defer func() {
		atomic.AddInt64(&d.clientCount, -1)
		log.Printf("client disconnected, remaining clients: %d", atomic.LoadInt64(&d.clientCount))
	}()

	if err := serve(conn, conn, conn, d.opts); err != nil {
		log.Printf("error serving connection: %v", err)
	}
}

func (d *Daemon) monitorIdleShutdown() {
	idleTimer := time.NewTimer(d.idleTimeout)
	defer idleTimer.Stop()

	for {
		select {
		case <-d.ctx.Done():
			return
		case <-idleTimer.C:
			if atomic.LoadInt64(&d.clientCount) == 0 {
				log.Printf("no clients connected for %v, shutting down daemon", d.idleTimeout)
				d.Stop()
				return
			}
		}
		idleTimer.Reset(d.idleTimeout)
	}
}

func (d *Daemon) Stop() {
	if d.listener != nil {
		d.listener.Close()
	}
	d.cancel()
}

func (d *Daemon) cleanup() {
	os.Remove(d.socketPath)
}
