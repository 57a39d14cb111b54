package neo4jdb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/atmohq/atmo-backend/internal/platform/logger"
)

type Config struct {
	URI         string
	User        string
	Password    string
	Database    string
	Timeout     time.Duration
	MaxPoolSize int
}

func (c Config) withDefaults() Config {
	c.URI = strings.TrimSpace(c.URI)
	c.User = strings.TrimSpace(c.User)
	c.Database = strings.TrimSpace(c.Database)
	if c.User == "" {
		c.User = "neo4j"
	}
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	if c.MaxPoolSize <= 0 {
		c.MaxPoolSize = 50
	}
	return c
}

// Client is a thin handle over a driver bound to one database. A nil *Client
// is valid and reports Enabled() == false.
type Client struct {
	driver   neo4j.DriverWithContext
	database string
	log      *logger.Logger
}

var ErrDisabled = errors.New("neo4jdb: client not configured")

// Open dials and verifies the server. It returns (nil, nil) when no URI is
// configured.
func Open(ctx context.Context, log *logger.Logger, cfg Config) (*Client, error) {
	if log == nil {
		return nil, fmt.Errorf("neo4jdb: logger required")
	}
	cfg = cfg.withDefaults()
	if cfg.URI == "" {
		return nil, nil
	}
	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.User, cfg.Password, ""), func(dc *neo4j.Config) {
		dc.MaxConnectionPoolSize = cfg.MaxPoolSize
		dc.SocketConnectTimeout = cfg.Timeout
	})
	if err != nil {
		return nil, fmt.Errorf("neo4jdb: driver: %w", err)
	}
	vctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()
	if err := driver.VerifyConnectivity(vctx); err != nil {
		_ = driver.Close(context.Background())
		return nil, fmt.Errorf("neo4jdb: connectivity: %w", err)
	}
	log.Info("neo4j connected", "uri", cfg.URI, "database", cfg.Database)
	return &Client{driver: driver, database: cfg.Database, log: log.With("client", "Neo4j")}, nil
}

func (c *Client) Enabled() bool { return c != nil && c.driver != nil }

// Write runs each statement in order inside one managed write transaction.
func (c *Client) Write(ctx context.Context, stmts ...Statement) error {
	if !c.Enabled() {
		return ErrDisabled
	}
	session := c.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite, DatabaseName: c.database})
	defer session.Close(ctx)
	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		for _, s := range stmts {
			res, err := tx.Run(ctx, s.Cypher, s.Params)
			if err != nil {
				return nil, err
			}
			if _, err := res.Consume(ctx); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	return err
}

// Statement is one parameterised Cypher query.
type Statement struct {
	Cypher string
	Params map[string]any
}

func (c *Client) Close(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	err := c.driver.Close(ctx)
	c.driver = nil
	return err
}
