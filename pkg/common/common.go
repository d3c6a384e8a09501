package common

import (
	"os"
	"time"

	"github.com/araddon/dateparse"
	"github.com/bwmarrin/snowflake"
	"github.com/spf13/cast"
)

var snowflakeNode *snowflake.Node

func init() {
	nodeID := cast.ToInt64(os.Getenv("CATERBOOK_NODE_ID"))
	if nodeID < 0 || nodeID > 1023 {
		nodeID = 0
	}
	var err error
	snowflakeNode, err = snowflake.NewNode(nodeID)
	if err != nil {
		panic(err)
	}
}

// UUIDint64 returns a new snowflake id.
func UUIDint64() int64 {
	return snowflakeNode.Generate().Int64()
}

// DayOf strips the time of day, keeping the calendar date of t in its
// own location and pinning it to UTC midnight. All stored event and
// panchangam dates use this normal form so exact-match and range
// queries behave the same on every database backend.
func DayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today returns the current local calendar day in normal form.
func Today() time.Time {
	return DayOf(time.Now())
}

// ParseDay parses a date string in any common layout and returns it
// in normal form.
func ParseDay(s string) (time.Time, error) {
	t, err := dateparse.ParseAny(s)
	if err != nil {
		return time.Time{}, err
	}
	return DayOf(t), nil
}
