package service

import (
	"strings"

	"github.com/arcadia-chat/arcadia/database"
	"github.com/arcadia-chat/arcadia/database/model"

	"gorm.io/gorm"
)

// UserService provides profile lookup, username search, the follow graph and
// player statistics.
type UserService struct{}

// ProfileUpdate carries the mutable profile fields.
type ProfileUpdate struct {
	Name      string `json:"name" form:"name"`
	Bio       string `json:"bio" form:"bio"`
	AvatarURL string `json:"avatarUrl" form:"avatarUrl"`
	CoverURL  string `json:"coverUrl" form:"coverUrl"`
	Twitter   string `json:"twitter" form:"twitter"`
	Instagram string `json:"instagram" form:"instagram"`
}

// StatsView is the payload behind the profile radar chart.
type StatsView struct {
	Wins        int `json:"wins"`
	Losses      int `json:"losses"`
	Serves      int `json:"serves"`
	TotalGames  int `json:"totalGames"`
	TotalPoints int `json:"totalPoints"`
}

func (s *UserService) GetById(id int) (*model.User, error) {
	db := database.GetDB()

	user := &model.User{}
	err := db.Where("id = ?", id).First(user).Error
	if database.IsNotFound(err) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetByUsername(username string) (*model.User, error) {
	db := database.GetDB()

	user := &model.User{}
	err := db.Where("username = ?", username).First(user).Error
	if database.IsNotFound(err) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}
	return user, nil
}

// SearchByUsername returns users whose username contains the query,
// case-insensitively. An empty query yields an empty slice.
func (s *UserService) SearchByUsername(query string) ([]model.User, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []model.User{}, nil
	}

	db := database.GetDB()

	users := make([]model.User, 0)
	err := db.Where("username LIKE ?", "%"+query+"%").
		Order("username").
		Limit(20).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateProfile overwrites the mutable profile fields of the user.
func (s *UserService) UpdateProfile(userId int, update ProfileUpdate) (*model.User, error) {
	db := database.GetDB()

	err := db.Model(model.User{}).
		Where("id = ?", userId).
		Updates(map[string]any{
			"name":       update.Name,
			"bio":        update.Bio,
			"avatar_url": update.AvatarURL,
			"cover_url":  update.CoverURL,
			"twitter":    update.Twitter,
			"instagram":  update.Instagram,
		}).Error
	if err != nil {
		return nil, err
	}
	return s.GetById(userId)
}

// Follow creates the directed edge follower -> username. Re-following is a
// no-op. Following yourself is rejected.
func (s *UserService) Follow(followerId int, username string) error {
	followee, err := s.GetByUsername(username)
	if err != nil {
		return err
	}
	if followee.Id == followerId {
		return ErrForbidden
	}

	db := database.GetDB()
	edge := &model.Follow{FollowerId: followerId, FolloweeId: followee.Id}
	return db.Where("follower_id = ? AND followee_id = ?", followerId, followee.Id).
		FirstOrCreate(edge).Error
}

// Unfollow removes the directed edge if present.
func (s *UserService) Unfollow(followerId int, username string) error {
	followee, err := s.GetByUsername(username)
	if err != nil {
		return err
	}

	db := database.GetDB()
	return db.Where("follower_id = ? AND followee_id = ?", followerId, followee.Id).
		Delete(&model.Follow{}).Error
}

// Follows reports whether follower currently follows username.
func (s *UserService) Follows(followerId int, username string) (bool, error) {
	followee, err := s.GetByUsername(username)
	if err != nil {
		return false, err
	}

	db := database.GetDB()
	var count int64
	err = db.Model(&model.Follow{}).
		Where("follower_id = ? AND followee_id = ?", followerId, followee.Id).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetFollowers lists the users following username.
func (s *UserService) GetFollowers(username string) ([]model.User, error) {
	user, err := s.GetByUsername(username)
	if err != nil {
		return nil, err
	}

	db := database.GetDB()
	users := make([]model.User, 0)
	err = db.Model(&model.User{}).
		Joins("JOIN follows ON follows.follower_id = users.id").
		Where("follows.followee_id = ?", user.Id).
		Order("users.username").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// GetFollowing lists the users username follows.
func (s *UserService) GetFollowing(username string) ([]model.User, error) {
	user, err := s.GetByUsername(username)
	if err != nil {
		return nil, err
	}

	db := database.GetDB()
	users := make([]model.User, 0)
	err = db.Model(&model.User{}).
		Joins("JOIN follows ON follows.followee_id = users.id").
		Where("follows.follower_id = ?", user.Id).
		Order("users.username").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// GetStats returns the radar-chart statistics for username. Accounts without
// a stats row report zeroes.
func (s *UserService) GetStats(username string) (*StatsView, error) {
	user, err := s.GetByUsername(username)
	if err != nil {
		return nil, err
	}

	db := database.GetDB()
	stats := &model.PlayerStats{}
	err = db.Where("user_id = ?", user.Id).First(stats).Error
	if err != nil && !database.IsNotFound(err) {
		return nil, err
	}

	return &StatsView{
		Wins:        stats.Wins,
		Losses:      stats.Losses,
		Serves:      stats.Serves,
		TotalGames:  stats.TotalGames(),
		TotalPoints: stats.TotalPoints(),
	}, nil
}

// RecordGame updates a player's counters after a finished game.
func (s *UserService) RecordGame(userId int, won bool, serves int) error {
	db := database.GetDB()

	return db.Transaction(func(tx *gorm.DB) error {
		stats := &model.PlayerStats{UserId: userId}
		if err := tx.Where("user_id = ?", userId).FirstOrCreate(stats).Error; err != nil {
			return err
		}
		if won {
			stats.Wins++
		} else {
			stats.Losses++
		}
		stats.Serves += serves
		return tx.Save(stats).Error
	})
}
