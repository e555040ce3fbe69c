package system

import (
	"time"

	"github.com/uptrace/bun"
)

// SendRecord is one row of the verification-mail send ledger. Rows are
// append-only inside the retention window; the janitor purges older ones.
type SendRecord struct {
	bun.BaseModel `bun:"system.send_records"`

	Id            int64     `bun:",pk,autoincrement"`
	Email         string    `bun:",notnull"`
	SentAt        time.Time `bun:",nullzero,notnull,default:current_timestamp"`
	SourceAddress string    `bun:",nullzero"`
	ClientInfo    string    `bun:",nullzero"`
}
