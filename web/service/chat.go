package service

import (
	"sort"
	"strings"
	"time"

	"github.com/arcadia-chat/arcadia/database"
	"github.com/arcadia-chat/arcadia/database/model"
	"github.com/arcadia-chat/arcadia/util/common"
	"github.com/arcadia-chat/arcadia/util/crypto"
	"github.com/arcadia-chat/arcadia/util/json_util"

	"github.com/goccy/go-json"
	"gorm.io/gorm"
)

// ChatService implements room lifecycle, the join policy, membership queries
// and role-gated moderation.
type ChatService struct{}

// RoomSummary is a conversation-list entry: the room plus the caller's
// membership state and unread count.
type RoomSummary struct {
	Room        model.Room `json:"room"`
	Role        model.Role `json:"role"`
	Muted       bool       `json:"muted"`
	Banned      bool       `json:"banned"`
	UnreadCount int64      `json:"unreadCount"`
}

// ExploredRoom is a discoverable room plus whether the caller already joined.
type ExploredRoom struct {
	Room   model.Room `json:"room"`
	Joined bool       `json:"joined"`
}

// MemberView is a room member with its moderation state.
type MemberView struct {
	UserId    int        `json:"userId"`
	Username  string     `json:"username"`
	Name      string     `json:"name"`
	AvatarURL string     `json:"avatarUrl"`
	Role      model.Role `json:"role"`
	Muted     bool       `json:"muted"`
	Banned    bool       `json:"banned"`
}

// roomRule is the decoded policy blob. Unknown keys are preserved on rewrite
// by merging into the raw map instead of this struct.
type roomRule struct {
	Password string `json:"password"`
}

func (s *ChatService) GetAllRoomTypes() ([]model.RoomType, error) {
	db := database.GetDB()

	types := make([]model.RoomType, 0)
	err := db.Order("id").Find(&types).Error
	if err != nil {
		return nil, err
	}
	return types, nil
}

// getRoomType resolves a RoomKind to its seeded enumeration row.
func (s *ChatService) getRoomType(kind model.RoomKind) (*model.RoomType, error) {
	db := database.GetDB()

	roomType := &model.RoomType{}
	err := db.Where("name = ?", string(kind)).First(roomType).Error
	if database.IsNotFound(err) {
		return nil, common.NewErrorf("room type %q not seeded", kind)
	} else if err != nil {
		return nil, err
	}
	return roomType, nil
}

// CreateRoom creates a room of the given kind and makes the creator its
// owner. Protected rooms require a non-empty password, stored hashed inside
// the rule blob.
func (s *ChatService) CreateRoom(ownerId int, name string, kind model.RoomKind, password string) (*model.Room, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, common.NewError("room name is required")
	}

	roomType, err := s.getRoomType(kind)
	if err != nil {
		return nil, err
	}

	rule := map[string]any{}
	if kind == model.RoomProtected {
		if password == "" {
			return nil, ErrForbidden
		}
		hashed, err := crypto.HashPasswordAsBcrypt(password)
		if err != nil {
			return nil, err
		}
		rule["password"] = hashed
	}
	ruleRaw, err := json.Marshal(rule)
	if err != nil {
		return nil, err
	}

	room := &model.Room{
		Name:   name,
		TypeId: roomType.Id,
		Rule:   json_util.RawMessage(ruleRaw),
	}

	db := database.GetDB()
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(room).Error; err != nil {
			return err
		}
		membership := &model.Membership{
			UserId:     ownerId,
			RoomId:     room.Id,
			Role:       model.RoleOwner,
			LastReadAt: time.Now(),
		}
		return tx.Create(membership).Error
	})
	if err != nil {
		return nil, err
	}
	room.Type = roomType
	return room, nil
}

// GetRoomInfo loads a room with its type row.
func (s *ChatService) GetRoomInfo(roomId int) (*model.Room, error) {
	db := database.GetDB()

	room := &model.Room{}
	err := db.Preload("Type").Where("id = ?", roomId).First(room).Error
	if database.IsNotFound(err) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}
	return room, nil
}

// roomKind resolves a room's closed enumeration value. Unknown stored names
// are treated as private, the most restrictive policy.
func (s *ChatService) roomKind(room *model.Room) model.RoomKind {
	if room.Type == nil {
		return model.RoomPrivate
	}
	kind, ok := model.ParseRoomKind(room.Type.Name)
	if !ok {
		return model.RoomPrivate
	}
	return kind
}

func (s *ChatService) IsJoined(userId, roomId int) (bool, error) {
	db := database.GetDB()

	var count int64
	err := db.Model(&model.Membership{}).
		Where("user_id = ? AND room_id = ?", userId, roomId).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetMyRole returns the caller's role in the room, or ErrNotFound when the
// caller has no membership.
func (s *ChatService) GetMyRole(userId, roomId int) (model.Role, error) {
	db := database.GetDB()

	membership := &model.Membership{}
	err := db.Where("user_id = ? AND room_id = ?", userId, roomId).
		First(membership).Error
	if database.IsNotFound(err) {
		return "", ErrNotFound
	} else if err != nil {
		return "", err
	}

	role, ok := model.ParseRole(string(membership.Role))
	if !ok {
		role = model.RoleMember
	}
	return role, nil
}

// JoinRoom applies the room join policy for requester, optionally enrolling
// targetUserId instead (0 means self-join).
//
//   - joining an already-joined room is a no-op success
//   - protected rooms require the supplied password to verify against the
//     hash stored in the rule blob
//   - enrolling another user requires the requester to hold an owner or
//     admin role in the room
//
// On denial no membership is created.
func (s *ChatService) JoinRoom(requesterId, roomId int, password string, targetUserId int) error {
	targetId := targetUserId
	if targetId == 0 {
		targetId = requesterId
	}

	if targetId != requesterId {
		role, err := s.GetMyRole(requesterId, roomId)
		if err == ErrNotFound {
			return ErrForbidden
		} else if err != nil {
			return err
		}
		if !role.CanModerate() {
			return ErrForbidden
		}
	}

	joined, err := s.IsJoined(targetId, roomId)
	if err != nil {
		return err
	}
	if joined {
		return nil
	}

	room, err := s.GetRoomInfo(roomId)
	if err != nil {
		return err
	}

	if s.roomKind(room) == model.RoomProtected {
		var rule roomRule
		if err := json.Unmarshal(room.Rule, &rule); err != nil {
			return common.NewError("room rule blob is corrupt:", err)
		}
		if !crypto.CheckPasswordHash(rule.Password, password) {
			return ErrUnauthorized
		}
	}

	membership := &model.Membership{
		UserId:     targetId,
		RoomId:     roomId,
		Role:       model.RoleMember,
		LastReadAt: time.Now(),
	}
	db := database.GetDB()
	return db.Create(membership).Error
}

// GetUserRooms lists the conversations of userId, newest activity first.
// roomId > 0 restricts the result to one room; name filters by room name.
func (s *ChatService) GetUserRooms(userId int, roomId int, name string) ([]RoomSummary, error) {
	db := database.GetDB()

	memberships := make([]model.Membership, 0)
	query := db.Where("user_id = ?", userId)
	if roomId > 0 {
		query = query.Where("room_id = ?", roomId)
	}
	if err := query.Find(&memberships).Error; err != nil {
		return nil, err
	}

	summaries := make([]RoomSummary, 0, len(memberships))
	for _, membership := range memberships {
		room := model.Room{}
		roomQuery := db.Preload("Type").Where("id = ?", membership.RoomId)
		if name != "" {
			roomQuery = roomQuery.Where("name LIKE ?", "%"+name+"%")
		}
		err := roomQuery.First(&room).Error
		if database.IsNotFound(err) {
			continue
		} else if err != nil {
			return nil, err
		}

		var unread int64
		err = db.Model(&model.Message{}).
			Where("room_id = ? AND created_at > ? AND sender_id <> ?",
				room.Id, membership.LastReadAt, userId).
			Count(&unread).Error
		if err != nil {
			return nil, err
		}

		summaries = append(summaries, RoomSummary{
			Room:        room,
			Role:        membership.Role,
			Muted:       membership.Muted,
			Banned:      membership.Banned,
			UnreadCount: unread,
		})
	}

	// most recently updated first
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Room.UpdatedAt.After(summaries[j].Room.UpdatedAt)
	})
	return summaries, nil
}

// ExploreRooms lists discoverable rooms (public and protected; private rooms
// are join-by-invite only) matching the name filter.
func (s *ChatService) ExploreRooms(name string, userId int) ([]ExploredRoom, error) {
	db := database.GetDB()

	privateType, err := s.getRoomType(model.RoomPrivate)
	if err != nil {
		return nil, err
	}

	rooms := make([]model.Room, 0)
	query := db.Preload("Type").Where("type_id <> ?", privateType.Id)
	if name != "" {
		query = query.Where("name LIKE ?", "%"+name+"%")
	}
	if err := query.Order("updated_at DESC").Find(&rooms).Error; err != nil {
		return nil, err
	}

	explored := make([]ExploredRoom, 0, len(rooms))
	for _, room := range rooms {
		joined, err := s.IsJoined(userId, room.Id)
		if err != nil {
			return nil, err
		}
		explored = append(explored, ExploredRoom{Room: room, Joined: joined})
	}
	return explored, nil
}

// GetRoomMembers lists members of the room, optionally filtered by username.
func (s *ChatService) GetRoomMembers(roomId int, username string) ([]MemberView, error) {
	db := database.GetDB()

	members := make([]MemberView, 0)
	query := db.Table("memberships").
		Select("memberships.user_id as user_id, users.username, users.name, users.avatar_url as avatar_url, memberships.role, memberships.muted, memberships.banned").
		Joins("JOIN users ON users.id = memberships.user_id").
		Where("memberships.room_id = ?", roomId)
	if username != "" {
		query = query.Where("users.username LIKE ?", "%"+username+"%")
	}
	if err := query.Order("users.username").Scan(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// GetRoomMemberIds returns the user ids of all members, for websocket fan-out.
func (s *ChatService) GetRoomMemberIds(roomId int) ([]int, error) {
	db := database.GetDB()

	ids := make([]int, 0)
	err := db.Model(&model.Membership{}).
		Where("room_id = ?", roomId).
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// GetRoomMessages lists the room's messages oldest first. The caller must be
// a member.
func (s *ChatService) GetRoomMessages(roomId, userId int) ([]model.Message, error) {
	joined, err := s.IsJoined(userId, roomId)
	if err != nil {
		return nil, err
	}
	if !joined {
		return nil, ErrForbidden
	}

	db := database.GetDB()
	messages := make([]model.Message, 0)
	err = db.Where("room_id = ?", roomId).
		Order("created_at").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// SetRoomAsRead moves the caller's read marker to now.
func (s *ChatService) SetRoomAsRead(roomId, userId int) error {
	db := database.GetDB()

	return db.Model(&model.Membership{}).
		Where("user_id = ? AND room_id = ?", userId, roomId).
		Update("last_read_at", time.Now()).
		Error
}

// PostMessage persists a message from a member who is neither muted nor
// banned, bumping the room's activity timestamp in the same transaction.
func (s *ChatService) PostMessage(userId, roomId int, content string) (*model.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, common.NewError("message content is empty")
	}

	db := database.GetDB()

	membership := &model.Membership{}
	err := db.Where("user_id = ? AND room_id = ?", userId, roomId).
		First(membership).Error
	if database.IsNotFound(err) {
		return nil, ErrForbidden
	} else if err != nil {
		return nil, err
	}
	if membership.Muted || membership.Banned {
		return nil, ErrForbidden
	}

	message := &model.Message{
		RoomId:   roomId,
		SenderId: userId,
		Content:  content,
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(message).Error; err != nil {
			return err
		}
		return tx.Model(&model.Room{}).
			Where("id = ?", roomId).
			Update("updated_at", time.Now()).
			Error
	})
	if err != nil {
		return nil, err
	}
	return message, nil
}

// moderationGate verifies the actor holds an owner or admin role in the room.
func (s *ChatService) moderationGate(actorId, roomId int) error {
	role, err := s.GetMyRole(actorId, roomId)
	if err == ErrNotFound {
		return ErrForbidden
	} else if err != nil {
		return err
	}
	if !role.CanModerate() {
		return ErrForbidden
	}
	return nil
}

// MuteUser sets the mute flag on the target membership. Requires an owner or
// admin role, the same gate as BanUserFromRoom.
func (s *ChatService) MuteUser(actorId, targetId, roomId int, muted bool) error {
	if err := s.moderationGate(actorId, roomId); err != nil {
		return err
	}

	db := database.GetDB()
	return db.Model(&model.Membership{}).
		Where("user_id = ? AND room_id = ?", targetId, roomId).
		Update("muted", muted).
		Error
}

// BanUserFromRoom sets the ban flag on the target membership to the requested
// value. The set is idempotent, not a toggle. Non-moderators fail with
// ErrForbidden and no mutation.
func (s *ChatService) BanUserFromRoom(actorId, targetId, roomId int, banned bool) error {
	if err := s.moderationGate(actorId, roomId); err != nil {
		return err
	}

	db := database.GetDB()
	return db.Model(&model.Membership{}).
		Where("user_id = ? AND room_id = ?", targetId, roomId).
		Update("banned", banned).
		Error
}

// Kickout removes the target's membership. The actor must be an owner or
// admin; admins cannot kick the owner. An owner kicking themself hands
// ownership to the earliest-joined admin before the row is removed.
func (s *ChatService) Kickout(actorId, targetId, roomId int) error {
	actorRole, err := s.GetMyRole(actorId, roomId)
	if err == ErrNotFound {
		return ErrForbidden
	} else if err != nil {
		return err
	}
	if !actorRole.CanModerate() {
		return ErrForbidden
	}

	targetRole, err := s.GetMyRole(targetId, roomId)
	if err == ErrNotFound {
		return ErrNotFound
	} else if err != nil {
		return err
	}
	if targetRole == model.RoleOwner && actorId != targetId {
		return ErrForbidden
	}

	db := database.GetDB()
	return db.Transaction(func(tx *gorm.DB) error {
		if targetRole == model.RoleOwner {
			successor := &model.Membership{}
			err := tx.Where("room_id = ? AND role = ? AND user_id <> ?",
				roomId, model.RoleAdmin, targetId).
				Order("created_at").
				First(successor).Error
			if err == nil {
				if err := tx.Model(&model.Membership{}).
					Where("id = ?", successor.Id).
					Update("role", model.RoleOwner).Error; err != nil {
					return err
				}
			} else if !database.IsNotFound(err) {
				return err
			}
		}
		return tx.Where("user_id = ? AND room_id = ?", targetId, roomId).
			Delete(&model.Membership{}).Error
	})
}

// IsRoomOwner reports whether userId owns the room.
func (s *ChatService) IsRoomOwner(roomId, userId int) (bool, error) {
	role, err := s.GetMyRole(userId, roomId)
	if err == ErrNotFound {
		return false, nil
	} else if err != nil {
		return false, err
	}
	return role == model.RoleOwner, nil
}

// ChangeRoomPassword rotates the room password. Only the owner may rotate;
// the confirmation must match. The new hash is merged into the existing rule
// blob (other keys preserved) and the room type forced to protected, both
// inside one transaction.
func (s *ChatService) ChangeRoomPassword(actorId, roomId int, password, confirmPassword string) error {
	isOwner, err := s.IsRoomOwner(roomId, actorId)
	if err != nil {
		return err
	}
	if !isOwner {
		return ErrUnauthorized
	}

	if password == "" || password != confirmPassword {
		return ErrForbidden
	}

	room, err := s.GetRoomInfo(roomId)
	if err != nil {
		return err
	}

	rule := map[string]any{}
	if len(room.Rule) > 0 {
		if err := json.Unmarshal(room.Rule, &rule); err != nil {
			return common.NewError("room rule blob is corrupt:", err)
		}
	}

	hashed, err := crypto.HashPasswordAsBcrypt(password)
	if err != nil {
		return err
	}
	rule["password"] = hashed

	ruleRaw, err := json.Marshal(rule)
	if err != nil {
		return err
	}

	protectedType, err := s.getRoomType(model.RoomProtected)
	if err != nil {
		return err
	}

	db := database.GetDB()
	return db.Transaction(func(tx *gorm.DB) error {
		return tx.Model(&model.Room{}).
			Where("id = ?", roomId).
			Updates(map[string]any{
				"type_id": protectedType.Id,
				"rule":    json_util.RawMessage(ruleRaw),
			}).Error
	})
}
