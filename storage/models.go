package storage

// KVEntry backs the engines' key/value state between daemon invocations.
type KVEntry struct {
	Key   string `gorm:"primaryKey"`
	Value string `gorm:"not null"`
}

// EventRecord is the append-only audit journal row.
type EventRecord struct {
	Seq          int64  `gorm:"primaryKey;autoIncrement"`
	Kind         string `gorm:"index;not null"`
	Account      string `gorm:"index"`
	Counterparty string
	RefID        uint64
	Amount       int64
	Note         string
	At           int64 `gorm:"not null"`
}
