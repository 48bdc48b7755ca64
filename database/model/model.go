// Package model defines the persistent entities of the arcadia chat server.
package model

import (
	"strings"
	"time"

	"github.com/arcadia-chat/arcadia/util/json_util"
)

// RoomKind is the closed enumeration of room access policies.
type RoomKind string

const (
	RoomPublic    RoomKind = "public"
	RoomProtected RoomKind = "protected"
	RoomPrivate   RoomKind = "private"
)

// ParseRoomKind normalizes a stored room-type name into a RoomKind.
func ParseRoomKind(s string) (RoomKind, bool) {
	switch RoomKind(strings.ToLower(strings.TrimSpace(s))) {
	case RoomPublic:
		return RoomPublic, true
	case RoomProtected:
		return RoomProtected, true
	case RoomPrivate:
		return RoomPrivate, true
	}
	return "", false
}

// Role is the closed enumeration of membership roles.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// ParseRole normalizes a stored role name into a Role.
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleOwner:
		return RoleOwner, true
	case RoleAdmin:
		return RoleAdmin, true
	case RoleMember:
		return RoleMember, true
	}
	return "", false
}

// CanModerate reports whether the role may mute, ban or kick other members.
func (r Role) CanModerate() bool {
	return r == RoleOwner || r == RoleAdmin
}

type User struct {
	Id               int       `json:"id" gorm:"primaryKey;autoIncrement"`
	Username         string    `json:"username" gorm:"uniqueIndex;not null"`
	Email            string    `json:"email" gorm:"uniqueIndex;not null"`
	Password         string    `json:"-"` // bcrypt hash
	Name             string    `json:"name"`
	Bio              string    `json:"bio"`
	AvatarURL        string    `json:"avatarUrl"`
	CoverURL         string    `json:"coverUrl"`
	Twitter          string    `json:"twitter"`
	Instagram        string    `json:"instagram"`
	TwoFactorSecret  string    `json:"-"`
	TwoFactorEnabled bool      `json:"twoFactorEnabled"`
	CreatedAt        time.Time `json:"createdAt"`
}

// RoomType is the persisted enumeration table; rows are seeded at startup and
// resolved by name, one row per RoomKind.
type RoomType struct {
	Id   int    `json:"id" gorm:"primaryKey;autoIncrement"`
	Name string `json:"name" gorm:"uniqueIndex;not null"`
}

type Room struct {
	Id        int                  `json:"id" gorm:"primaryKey;autoIncrement"`
	Name      string               `json:"name" gorm:"index;not null"`
	TypeId    int                  `json:"typeId"`
	Type      *RoomType            `json:"type,omitempty" gorm:"foreignKey:TypeId;references:Id"`
	Rule      json_util.RawMessage `json:"rule" gorm:"type:text"` // policy blob; documented key: password
	CreatedAt time.Time            `json:"createdAt"`
	UpdatedAt time.Time            `json:"updatedAt"` // bumped on every message, drives sidebar ordering
}

type Membership struct {
	Id         int       `json:"id" gorm:"primaryKey;autoIncrement"`
	UserId     int       `json:"userId" gorm:"uniqueIndex:idx_membership_user_room;not null"`
	RoomId     int       `json:"roomId" gorm:"uniqueIndex:idx_membership_user_room;not null"`
	Role       Role      `json:"role" gorm:"not null;default:member"`
	Muted      bool      `json:"muted"`
	Banned     bool      `json:"banned"`
	LastReadAt time.Time `json:"lastReadAt"` // read marker; messages after this are unread
	CreatedAt  time.Time `json:"createdAt"`
}

type Message struct {
	Id        int       `json:"id" gorm:"primaryKey;autoIncrement"`
	RoomId    int       `json:"roomId" gorm:"index;not null"`
	SenderId  int       `json:"senderId" gorm:"index;not null"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// Follow is a directed follower -> followee edge.
type Follow struct {
	Id         int       `json:"id" gorm:"primaryKey;autoIncrement"`
	FollowerId int       `json:"followerId" gorm:"uniqueIndex:idx_follow_edge;not null"`
	FolloweeId int       `json:"followeeId" gorm:"uniqueIndex:idx_follow_edge;not null"`
	CreatedAt  time.Time `json:"createdAt"`
}

// PlayerStats backs the profile radar chart.
type PlayerStats struct {
	Id     int `json:"id" gorm:"primaryKey;autoIncrement"`
	UserId int `json:"userId" gorm:"uniqueIndex;not null"`
	Wins   int `json:"wins" gorm:"default:0"`
	Losses int `json:"losses" gorm:"default:0"`
	Serves int `json:"serves" gorm:"default:0"`
}

// TotalGames is the number of finished games.
func (s *PlayerStats) TotalGames() int {
	return s.Wins + s.Losses
}

// TotalPoints scores two points per win minus one per loss, floored at zero.
func (s *PlayerStats) TotalPoints() int {
	points := s.Wins*2 - s.Losses
	if points < 0 {
		points = 0
	}
	return points
}
