package utils

import "github.com/sony/sonyflake"

var sf = sonyflake.NewSonyflake(sonyflake.Settings{})

// NextRef returns a short numeric reference for a new submission, shown
// back to the submitter as a receipt. Zero when no id could be produced;
// the uuid primary key remains the real identity either way.
func NextRef() uint64 {
	if sf == nil {
		return 0
	}
	id, err := sf.NextID()
	if err != nil {
		return 0
	}
	return id
}
