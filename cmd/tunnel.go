package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/EO-DataHub/eodhp-group-services/internal/appconfig"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

var tunnelCmd = &cobra.Command{
	Use:   "tunnel",
	Short: "Open an SSH tunnel to the database for local development",
	Run: func(cmd *cobra.Command, args []string) {
		loadConfig()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := startSSHTunnel(ctx, appCfg.Tunnel); err != nil {
			log.Fatal().Err(err).Msg("SSH tunnel failed")
		}
	},
}

func init() {
	rootCmd.AddCommand(tunnelCmd)
}

// sshClient dials the bastion host using key authentication and a
// known_hosts file for host key verification.
func sshClient(cfg appconfig.TunnelConfig) (*ssh.Client, error) {
	key, err := os.ReadFile(cfg.PrivateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read private key: %w", err)
	}

	signer, err := ssh.ParsePrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("unable to parse private key: %w", err)
	}

	knownHostsPath := cfg.KnownHostsPath
	if knownHostsPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("unable to locate known_hosts: %w", err)
		}
		knownHostsPath = filepath.Join(home, ".ssh", "known_hosts")
	}

	hostKeyCallback, err := knownhosts.New(knownHostsPath)
	if err != nil {
		return nil, fmt.Errorf("unable to load known_hosts: %w", err)
	}

	sshConfig := &ssh.ClientConfig{
		User:            cfg.SSHUser,
		Auth:            []ssh.AuthMethod{ssh.PublicKeys(signer)},
		HostKeyCallback: hostKeyCallback,
		Timeout:         5 * time.Second,
	}

	client, err := ssh.Dial("tcp", net.JoinHostPort(cfg.SSHHost, cfg.SSHPort), sshConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to %s: %w", cfg.SSHHost, err)
	}

	return client, nil
}

type dialFunc func(network, addr string) (net.Conn, error)

// forwardTraffic accepts local connections and pipes each one to remoteAddr
// through dial until ctx is cancelled.
func forwardTraffic(ctx context.Context, listener net.Listener, dial dialFunc, remoteAddr string) error {
	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		localConn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			log.Warn().Err(err).Msg("Failed to accept local connection")
			continue
		}

		remoteConn, err := dial("tcp", remoteAddr)
		if err != nil {
			log.Error().Err(err).Str("remote", remoteAddr).Msg("Failed to connect to remote host")
			localConn.Close()
			continue
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			pipe(localConn, remoteConn)
		}()
	}
}

// pipe copies in both directions and closes both ends once either side is done.
func pipe(a, b net.Conn) {
	var once sync.Once
	closeBoth := func() {
		a.Close()
		b.Close()
	}

	done := make(chan struct{}, 2)
	go func() {
		io.Copy(a, b)
		once.Do(closeBoth)
		done <- struct{}{}
	}()
	go func() {
		io.Copy(b, a)
		once.Do(closeBoth)
		done <- struct{}{}
	}()
	<-done
	<-done
}

func startSSHTunnel(ctx context.Context, cfg appconfig.TunnelConfig) error {
	client, err := sshClient(cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	listener, err := net.Listen("tcp", net.JoinHostPort("localhost", cfg.LocalPort))
	if err != nil {
		return fmt.Errorf("unable to listen on local port %s: %w", cfg.LocalPort, err)
	}

	remoteAddr := net.JoinHostPort(cfg.RemoteHost, cfg.RemotePort)
	log.Info().Str("local_port", cfg.LocalPort).Str("remote", remoteAddr).Msg("SSH tunnel started")

	return forwardTraffic(ctx, listener, client.Dial, remoteAddr)
}
