package database

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	pgUniqueViolation    = "23505"
	mysqlDuplicateEntry  = 1062
	sqliteUniqueFailedOn = "unique constraint failed"
)

// UniqueViolation 判断是否唯一约束冲突，并返回驱动给出的详情
func UniqueViolation(err error) (string, bool) {
	if err == nil {
		return "", false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		if pgErr.Detail != "" {
			return pgErr.Detail, true
		}
		return pgErr.Message, true
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry {
		return myErr.Message, true
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return err.Error(), true
	}
	// sqlite 以及其它驱动只能看消息
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, sqliteUniqueFailedOn) ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique violation") {
		return err.Error(), true
	}
	return "", false
}
