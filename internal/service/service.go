// Package service 业务层：仓储接口之上实现账号、赛事、报名与资讯的规则
package service

import (
	"errors"

	"gorm.io/gorm"
)

func isNotFound(err error) bool { return errors.Is(err, gorm.ErrRecordNotFound) }
