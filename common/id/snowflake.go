// Package id hands out time-ordered snowflake ids for records whose keys
// need a unique, sortable suffix.
package id

import (
	"strconv"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
)

var (
	node *snowflake.Node
	once sync.Once
	err  error
)

// Init prepares the process-wide node. Later calls are no-ops and return
// the first result.
func Init(nodeID int64) error {
	once.Do(func() {
		node, err = snowflake.NewNode(nodeID)
	})
	return err
}

// New returns the next id. Init must have succeeded first.
func New() int64 {
	return node.Generate().Int64()
}

// NewString returns the next id in decimal form, ready for use as a key suffix.
func NewString() string {
	return strconv.FormatInt(New(), 10)
}

// Time returns the wall-clock time encoded in an id from New.
func Time(v int64) time.Time {
	return time.UnixMilli(snowflake.ID(v).Time())
}
