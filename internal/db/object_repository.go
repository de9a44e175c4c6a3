package db

import (
	"errors"

	"gorm.io/gorm"
)

// ErrRecordNotFound is returned by the lookup methods when no row matches.
var ErrRecordNotFound = gorm.ErrRecordNotFound

type ObjectRepository struct {
	db *gorm.DB
}

func NewObjectRepository(database *gorm.DB) *ObjectRepository {
	return &ObjectRepository{db: database}
}

// Save inserts or overwrites one object row.
func (r *ObjectRepository) Save(obj *ObjectEntity) error {
	return r.db.Save(obj).Error
}

// FindByID returns the object regardless of its active flag.
func (r *ObjectRepository) FindByID(id string) (*ObjectEntity, error) {
	var obj ObjectEntity
	err := r.db.Where("id = ?", id).First(&obj).Error
	if err != nil {
		return nil, err
	}
	return &obj, nil
}

// FindActiveByID returns the object only when it is active.
func (r *ObjectRepository) FindActiveByID(id string) (*ObjectEntity, error) {
	var obj ObjectEntity
	err := r.db.Where("id = ? AND active = ?", id, true).First(&obj).Error
	if err != nil {
		return nil, err
	}
	return &obj, nil
}

// FindAll lists objects newest first. activeOnly narrows to active rows.
func (r *ObjectRepository) FindAll(activeOnly bool, size, page int) ([]ObjectEntity, error) {
	var objs []ObjectEntity
	q := r.paged(size, page)
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	err := q.Find(&objs).Error
	return objs, err
}

// FindChildren lists the objects bound under parentID.
func (r *ObjectRepository) FindChildren(parentID string, activeOnly bool, size, page int) ([]ObjectEntity, error) {
	var objs []ObjectEntity
	q := r.paged(size, page).Where("parent_id = ?", parentID)
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	err := q.Find(&objs).Error
	return objs, err
}

// FindChildrenAll returns every child row of a parent, active or not,
// without pagination. The cascade delete walks this.
func (r *ObjectRepository) FindChildrenAll(parentID string) ([]ObjectEntity, error) {
	var objs []ObjectEntity
	err := r.db.Where("parent_id = ?", parentID).Find(&objs).Error
	return objs, err
}

// FindByAlias looks objects up by their exact alias.
func (r *ObjectRepository) FindByAlias(alias string, activeOnly bool, size, page int) ([]ObjectEntity, error) {
	var objs []ObjectEntity
	q := r.paged(size, page).Where("alias = ?", alias)
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	err := q.Find(&objs).Error
	return objs, err
}

// FindByAliasPrefix matches aliases starting with the pattern. Aliases are
// abused as secondary keys ("Settings-<tenantId>", "notification-<tenantId>")
// so a prefix match is all the callers need.
func (r *ObjectRepository) FindByAliasPrefix(prefix string, activeOnly bool, size, page int) ([]ObjectEntity, error) {
	var objs []ObjectEntity
	q := r.paged(size, page).Where("alias LIKE ?", prefix+"%")
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	err := q.Find(&objs).Error
	return objs, err
}

// FindByType lists objects of one type tag.
func (r *ObjectRepository) FindByType(objType string, activeOnly bool, size, page int) ([]ObjectEntity, error) {
	var objs []ObjectEntity
	q := r.paged(size, page).Where("type = ?", objType)
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	err := q.Find(&objs).Error
	return objs, err
}

// FindByStatus lists objects with one status value.
func (r *ObjectRepository) FindByStatus(status string, activeOnly bool, size, page int) ([]ObjectEntity, error) {
	var objs []ObjectEntity
	q := r.paged(size, page).Where("status = ?", status)
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	err := q.Find(&objs).Error
	return objs, err
}

// FindByTypeAndStatus lists objects matching both a type tag and a status.
func (r *ObjectRepository) FindByTypeAndStatus(objType, status string, activeOnly bool, size, page int) ([]ObjectEntity, error) {
	var objs []ObjectEntity
	q := r.paged(size, page).Where("type = ? AND status = ?", objType, status)
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	err := q.Find(&objs).Error
	return objs, err
}

// FindAllByType returns every row of one type tag, active or not, without
// pagination. Used for uniqueness scans over small type populations.
func (r *ObjectRepository) FindAllByType(objType string) ([]ObjectEntity, error) {
	var objs []ObjectEntity
	err := r.db.Where("type = ?", objType).Find(&objs).Error
	return objs, err
}

// FindActiveByTypeAndStatus returns every matching active row unpaged; the
// task scheduler sweeps with this.
func (r *ObjectRepository) FindActiveByTypeAndStatus(objType, status string) ([]ObjectEntity, error) {
	var objs []ObjectEntity
	err := r.db.Where("type = ? AND status = ? AND active = ?", objType, status, true).Find(&objs).Error
	return objs, err
}

// DeleteAll wipes the object store.
func (r *ObjectRepository) DeleteAll() error {
	return r.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&ObjectEntity{}).Error
}

func (r *ObjectRepository) paged(size, page int) *gorm.DB {
	return r.db.Order("creation_timestamp DESC, id DESC").Limit(size).Offset(page * size)
}

// IsNotFound reports whether err means a missing row.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
