package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PoolEntryType identifies how a pool template becomes a live session
type PoolEntryType string

const (
	PoolEntryScheduled PoolEntryType = "scheduled" // activated when StartTimestamp is reached
	PoolEntryChain     PoolEntryType = "chain"     // activated when the previous link is adjudicated
	PoolEntryStandby   PoolEntryType = "standby"   // activated manually by an operator
)

// Valid reports whether t is a known entry type
func (t PoolEntryType) Valid() bool {
	switch t {
	case PoolEntryScheduled, PoolEntryChain, PoolEntryStandby:
		return true
	}
	return false
}

// SessionPoolEntry is a preconfigured session template
type SessionPoolEntry struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	ProductID       string             `bson:"productId" json:"product_id" binding:"required"`
	OperatorCode    string             `bson:"operatorCode" json:"operator_code" binding:"required"`
	Type            PoolEntryType      `bson:"type" json:"type" binding:"required"`
	ChainGroupID    string             `bson:"chainGroupId,omitempty" json:"chain_group_id,omitempty"`
	ChainIndex      int                `bson:"chainIndex,omitempty" json:"chain_index,omitempty"`
	MaxParticipants int                `bson:"maxParticipants" json:"max_participants" binding:"required"`
	Amount          float64            `bson:"amount" json:"amount" binding:"required"`
	StartTimestamp  *time.Time         `bson:"startTimestamp,omitempty" json:"start_timestamp,omitempty"`
	Description     string             `bson:"description,omitempty" json:"description,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"created_at"`
}
