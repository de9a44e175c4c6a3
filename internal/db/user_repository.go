package db

import "gorm.io/gorm"

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{db: database}
}

func (r *UserRepository) Save(user *UserEntity) error {
	return r.db.Save(user).Error
}

func (r *UserRepository) FindByID(id string) (*UserEntity, error) {
	var user UserEntity
	err := r.db.Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindAll(size, page int) ([]UserEntity, error) {
	var users []UserEntity
	err := r.db.Order("id").Limit(size).Offset(page * size).Find(&users).Error
	return users, err
}

// FindAllByRole returns every user holding one role, unpaged. The security
// monitor sweeps the end-user population with this.
func (r *UserRepository) FindAllByRole(role string) ([]UserEntity, error) {
	var users []UserEntity
	err := r.db.Where("role = ?", role).Order("id").Find(&users).Error
	return users, err
}

func (r *UserRepository) DeleteAll() error {
	return r.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&UserEntity{}).Error
}
