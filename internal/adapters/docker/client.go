// Package docker implements the engine ports on top of the Docker Engine API.
package docker

import (
	"context"
	"fmt"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/events"
	"github.com/docker/docker/client"

	"github.com/bft-labs/enginewatch/internal/domain"
	"github.com/bft-labs/enginewatch/internal/ports"
)

// Client implements ports.DaemonClient for the local Docker Engine.
type Client struct {
	host string
}

// NewClient creates a client. An empty host uses DOCKER_HOST or the
// platform default socket.
func NewClient(host string) *Client {
	return &Client{host: host}
}

// Connect builds an API client. No request is made until the first call on
// the returned connection.
func (c *Client) Connect(ctx context.Context) (ports.DaemonConn, error) {
	opts := []client.Opt{client.FromEnv, client.WithAPIVersionNegotiation()}
	if c.host != "" {
		opts = append(opts, client.WithHost(c.host))
	}
	cli, err := client.NewClientWithOpts(opts...)
	if err != nil {
		return nil, fmt.Errorf("docker client: %w", err)
	}
	return &conn{api: cli}, nil
}

type conn struct {
	api *client.Client
}

func (c *conn) Version(ctx context.Context) (domain.EngineVersion, error) {
	v, err := c.api.ServerVersion(ctx)
	if err != nil {
		return domain.EngineVersion{}, err
	}
	return domain.EngineVersion{
		Version:    v.Version,
		APIVersion: v.APIVersion,
		OS:         v.Os,
		Arch:       v.Arch,
	}, nil
}

func (c *conn) Ping(ctx context.Context) error {
	_, err := c.api.Ping(ctx)
	return err
}

func (c *conn) ListResources(ctx context.Context) (int, error) {
	list, err := c.api.ContainerList(ctx, container.ListOptions{All: true})
	if err != nil {
		return 0, err
	}
	return len(list), nil
}

func (c *conn) Events(ctx context.Context) ports.EventStream {
	msgs, errs := c.api.Events(ctx, events.ListOptions{})
	return convertStream(ctx, msgs, errs)
}

func (c *conn) Close() error {
	return c.api.Close()
}

// convertStream adapts the Docker event channels to ports.EventStream. The
// output Events channel closes when the source stream ends.
func convertStream(ctx context.Context, msgs <-chan events.Message, errs <-chan error) ports.EventStream {
	out := make(chan ports.DaemonEvent)
	outErr := make(chan error, 1)

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-errs:
				if ok && err != nil {
					outErr <- err
				}
				return
			case m, ok := <-msgs:
				if !ok {
					return
				}
				ev := ports.DaemonEvent{
					Type:   string(m.Type),
					Action: string(m.Action),
					Actor:  m.Actor.ID,
				}
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return ports.EventStream{Events: out, Err: outErr}
}
