// Package anvil runs a throwaway local anvil node, mainly for tests that need a
// real chain.
package anvil

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
)

const (
	// DefaultChainID is the chain ID anvil uses unless told otherwise
	DefaultChainID uint64 = 31337

	// DefaultAccount is the first prefunded, unlocked anvil account
	DefaultAccount = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"

	// DefaultPrivateKey is the key of DefaultAccount
	DefaultPrivateKey = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
)

// ErrNotInstalled is returned when no anvil binary is on PATH
var ErrNotInstalled = errors.New("anvil not found in PATH")

// Options configure a node. Zero values pick a free port and the default chain ID.
type Options struct {
	Port    int
	ChainID uint64
	// LogDir receives anvil.log. Defaults to a fresh temporary directory.
	LogDir string
	// StartTimeout bounds the wait for the RPC endpoint. Defaults to 10s.
	StartTimeout time.Duration
}

// Node is a running anvil process
type Node struct {
	URL     string
	ChainID uint64
	LogFile string

	cmd  *exec.Cmd
	done chan struct{}
}

// Installed reports whether an anvil binary is available
func Installed() bool {
	_, err := exec.LookPath("anvil")
	return err == nil
}

// Start launches anvil and waits until it answers eth_chainId
func Start(ctx context.Context, opts Options) (*Node, error) {
	if !Installed() {
		return nil, ErrNotInstalled
	}
	if opts.ChainID == 0 {
		opts.ChainID = DefaultChainID
	}
	if opts.StartTimeout == 0 {
		opts.StartTimeout = 10 * time.Second
	}
	if opts.Port == 0 {
		port, err := freePort()
		if err != nil {
			return nil, err
		}
		opts.Port = port
	}
	if opts.LogDir == "" {
		dir, err := os.MkdirTemp("", "rocketh-anvil-")
		if err != nil {
			return nil, fmt.Errorf("failed to create log dir: %w", err)
		}
		opts.LogDir = dir
	}

	logPath := filepath.Join(opts.LogDir, "anvil.log")
	logFile, err := os.Create(logPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}
	defer logFile.Close()

	cmd := exec.Command("anvil",
		"--port", strconv.Itoa(opts.Port),
		"--host", "127.0.0.1",
		"--chain-id", strconv.FormatUint(opts.ChainID, 10),
	)
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start anvil: %w", err)
	}

	node := &Node{
		URL:     fmt.Sprintf("http://127.0.0.1:%d", opts.Port),
		ChainID: opts.ChainID,
		LogFile: logPath,
		cmd:     cmd,
		done:    make(chan struct{}),
	}
	go func() {
		_ = cmd.Wait()
		close(node.done)
	}()

	if err := node.waitReady(ctx, opts.StartTimeout); err != nil {
		node.Stop()
		return nil, fmt.Errorf("anvil did not become ready (logs: %s): %w", logPath, err)
	}
	return node, nil
}

// waitReady polls the RPC endpoint until it reports the expected chain ID
func (n *Node) waitReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	var lastErr error
	for {
		select {
		case <-n.done:
			return errors.New("process exited")
		case <-ctx.Done():
			if lastErr != nil {
				return lastErr
			}
			return ctx.Err()
		case <-ticker.C:
		}

		client, err := ethclient.DialContext(ctx, n.URL)
		if err != nil {
			lastErr = err
			continue
		}
		id, err := client.ChainID(ctx)
		client.Close()
		if err != nil {
			lastErr = err
			continue
		}
		if id.Uint64() != n.ChainID {
			return fmt.Errorf("unexpected chain ID %s", id)
		}
		return nil
	}
}

// Stop terminates the node, killing it when SIGTERM is not honoured within 5s
func (n *Node) Stop() {
	if n.cmd == nil || n.cmd.Process == nil {
		return
	}
	select {
	case <-n.done:
		return
	default:
	}

	if err := n.cmd.Process.Signal(syscall.SIGTERM); err != nil {
		_ = n.cmd.Process.Kill()
	}
	select {
	case <-n.done:
	case <-time.After(5 * time.Second):
		_ = n.cmd.Process.Kill()
		<-n.done
	}
}

func freePort() (int, error) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, fmt.Errorf("failed to find a free port: %w", err)
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}
