package db

import "gorm.io/gorm"

type CommandRepository struct {
	db *gorm.DB
}

func NewCommandRepository(database *gorm.DB) *CommandRepository {
	return &CommandRepository{db: database}
}

func (r *CommandRepository) Save(cmd *CommandEntity) error {
	return r.db.Save(cmd).Error
}

func (r *CommandRepository) FindAll(size, page int) ([]CommandEntity, error) {
	var cmds []CommandEntity
	err := r.db.Order("invocation_timestamp DESC, id DESC").Limit(size).Offset(page * size).Find(&cmds).Error
	return cmds, err
}

func (r *CommandRepository) DeleteAll() error {
	return r.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&CommandEntity{}).Error
}
