package hwid

import (
	"fmt"
	"io"
	"net"
	"strings"
	"sync"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"

	"github.com/netforge-os/confgen/pkg/util"
)

// redisRemoteAddr is where Redis listens on the router itself.
const redisRemoteAddr = "127.0.0.1:6379"

// SSHTunnel forwards a local TCP port to Redis on a router through SSH.
// Redis on the router is bound to loopback only.
type SSHTunnel struct {
	localAddr string
	sshClient *ssh.Client
	listener  net.Listener
	done      chan struct{}
	wg        sync.WaitGroup
}

// HostKeyCallback verifies router host keys against a known_hosts file.
// With an empty path host keys are not verified and a warning is logged.
func HostKeyCallback(knownHostsPath string) (ssh.HostKeyCallback, error) {
	if knownHostsPath == "" {
		util.Warnf("ssh: no known_hosts file given, router host keys are not verified")
		return ssh.InsecureIgnoreHostKey(), nil
	}
	cb, err := knownhosts.New(knownHostsPath)
	if err != nil {
		return nil, fmt.Errorf("loading known hosts: %w", err)
	}
	return cb, nil
}

// NewSSHTunnel dials SSH on host (port 22 unless host carries one) and opens
// a local listener on a random port.
func NewSSHTunnel(host, user, pass string, hostKey ssh.HostKeyCallback) (*SSHTunnel, error) {
	config := &ssh.ClientConfig{
		User:            user,
		Auth:            []ssh.AuthMethod{ssh.Password(pass)},
		HostKeyCallback: hostKey,
	}

	addr := host
	if !strings.Contains(host, ":") {
		addr = host + ":22"
	}

	sshClient, err := ssh.Dial("tcp", addr, config)
	if err != nil {
		return nil, fmt.Errorf("SSH dial %s: %w", addr, err)
	}

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		sshClient.Close()
		return nil, fmt.Errorf("local listen: %w", err)
	}

	t := &SSHTunnel{
		localAddr: listener.Addr().String(),
		sshClient: sshClient,
		listener:  listener,
		done:      make(chan struct{}),
	}

	t.wg.Add(1)
	go t.acceptLoop()

	return t, nil
}

// LocalAddr returns the local address that forwards to the router's Redis.
func (t *SSHTunnel) LocalAddr() string {
	return t.localAddr
}

// Close stops the listener, closes the SSH connection and waits for the
// forwarding goroutines.
func (t *SSHTunnel) Close() error {
	close(t.done)
	t.listener.Close()
	t.wg.Wait()
	return t.sshClient.Close()
}

func (t *SSHTunnel) acceptLoop() {
	defer t.wg.Done()
	for {
		local, err := t.listener.Accept()
		if err != nil {
			select {
			case <-t.done:
				return
			default:
				continue
			}
		}
		t.wg.Add(1)
		go t.forward(local)
	}
}

func (t *SSHTunnel) forward(local net.Conn) {
	defer t.wg.Done()
	defer local.Close()

	remote, err := t.sshClient.Dial("tcp", redisRemoteAddr)
	if err != nil {
		return
	}
	defer remote.Close()

	done := make(chan struct{}, 2)
	go func() {
		io.Copy(remote, local)
		done <- struct{}{}
	}()
	go func() {
		io.Copy(local, remote)
		done <- struct{}{}
	}()
	<-done
}
