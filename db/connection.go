package db

import (
	"fmt"
	"sync"

	"github.com/go-pg/pg/v10"
)

type Credentials struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
}

type ConnectionProvider interface {
	GetConnection() *pg.DB
	Stop()
}

func NewConnectionProvider(creds *Credentials) ConnectionProvider {
	return &connectionProviderImpl{creds: creds}
}

type connectionProviderImpl struct {
	creds *Credentials

	mutex sync.Mutex
	conn  *pg.DB
}

func (c *connectionProviderImpl) GetConnection() *pg.DB {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if c.conn == nil {
		c.conn = pg.Connect(&pg.Options{
			Addr:     fmt.Sprintf("%s:%d", c.creds.Host, c.creds.Port),
			Database: c.creds.Database,
			User:     c.creds.Username,
			Password: c.creds.Password,
		})
	}
	return c.conn
}

func (c *connectionProviderImpl) Stop() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
}
