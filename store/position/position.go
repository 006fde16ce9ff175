package position

import (
	"context"

	"loanbook/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
)

type positionStore struct {
	db *db.DB
}

// New new position store
func New(db *db.DB) core.IPositionStore {
	return &positionStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Position{})
		if err := tx.AutoMigrate(core.Position{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *positionStore) Save(ctx context.Context, tx *db.DB, position *core.Position) error {
	if err := tx.Update().Where("account=? and symbol=?", position.Account, position.Symbol).FirstOrCreate(position).Error; err != nil {
		return err
	}

	return nil
}

func (s *positionStore) Find(ctx context.Context, account, symbol string) (*core.Position, error) {
	var position core.Position
	if err := s.db.View().Where("account=? and symbol=?", account, symbol).First(&position).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return &core.Position{Account: account, Symbol: symbol}, nil
		}
		return nil, err
	}

	return &position, nil
}

func (s *positionStore) FindByAccount(ctx context.Context, account string) ([]*core.Position, error) {
	var positions []*core.Position
	if err := s.db.View().Where("account=?", account).Find(&positions).Error; err != nil {
		return nil, err
	}

	return positions, nil
}

func (s *positionStore) All(ctx context.Context) ([]*core.Position, error) {
	var positions []*core.Position
	if err := s.db.View().Order("id").Find(&positions).Error; err != nil {
		return nil, err
	}

	return positions, nil
}

func (s *positionStore) Update(ctx context.Context, tx *db.DB, position *core.Position) error {
	version := position.Version
	position.Version++
	if err := tx.Update().Model(core.Position{}).Where("account=? and symbol=? and version=?", position.Account, position.Symbol, version).Update(position).Error; err != nil {
		return err
	}

	return nil
}
