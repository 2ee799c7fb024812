package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/d60-Lab/videohub/pkg/apperr"
)

// toggleRow 在一个事务里完成 查找→删除|插入。
// 唯一键冲突或删除时记录已消失都以 Conflict 返回，调用方可整体重试。
// 返回被删除或新建的行，以及是否为新建。
func toggleRow[T any](ctx context.Context, db *gorm.DB, op string, match *T, fresh func() *T) (*T, bool, error) {
	var (
		row   *T
		added bool
	)
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cur T
		err := tx.Where(match).Take(&cur).Error
		switch {
		case err == nil:
			res := tx.Delete(&cur)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return apperr.Conflict(op + ": row removed concurrently")
			}
			row = &cur
			return nil
		case errors.Is(err, gorm.ErrRecordNotFound):
			n := fresh()
			if err := tx.Create(n).Error; err != nil {
				return err
			}
			row, added = n, true
			return nil
		default:
			return err
		}
	})
	if err != nil {
		return nil, false, apperr.FromStore(op, err)
	}
	return row, added, nil
}

func paginate(q *gorm.DB, offset, limit int) *gorm.DB {
	if offset > 0 {
		q = q.Offset(offset)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	return q
}
