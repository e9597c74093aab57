// Package ez 把路由注册收敛为 Action 描述：绑定、鉴权、事务、统一响应。
package ez

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"catalog-api/internal/core/errs"
	mdw "catalog-api/internal/transport/http/middleware"
	resp "catalog-api/internal/transport/http/response"
)

type EZ struct {
	g      *gin.RouterGroup
	guards *mdw.Pipeline
	db     *gorm.DB
	log    *zap.Logger
}

// New guards 可为 nil，此时注册受保护的动作会 panic
func New(g *gin.RouterGroup, guards *mdw.Pipeline, db *gorm.DB, l *zap.Logger) EZ {
	registerValidators()
	if l == nil {
		l = zap.NewNop()
	}
	return EZ{g: g, guards: guards, db: db, log: l}
}

// Group 共享 guard 与 db 的子分组
func (e EZ) Group(path string) EZ {
	e.g = e.g.Group(path)
	return e
}

// 绑定方式
type Binder string

const (
	BindJSON  Binder = "json"  // 从 JSON 绑定
	BindQuery Binder = "query" // 从 URL ?a=b 绑定
	BindURI   Binder = "uri"   // 从路径参数绑定
	BindNone  Binder = "none"  // 不绑定，自己从 c.Param / c.FormFile 取
)

// 动作定义：I 入参，O 出参
type Action[I any, O any] struct {
	Method  string // "GET" | "POST" | "PATCH" | "PUT" | "DELETE"
	Path    string // 例："/auth/login"、"/products/:id"
	Binder  Binder
	Access  Access
	UseTx   bool // 是否包事务（gorm.Transaction）
	Status  int  // 成功时的 HTTP 状态，默认 200
	Handler func(c *gin.Context, tx *gorm.DB, in *I) (O, error)
}

// Handle 注册原始 gin 处理器（例如文件下载），同样经过 Access 检查
func (e EZ) Handle(method, path string, access Access, h gin.HandlerFunc) {
	chain := []gin.HandlerFunc{}
	if access.Protected() {
		if e.guards == nil {
			panic(fmt.Sprintf("ez: %s %s requires auth but no guard pipeline is configured", method, path))
		}
		chain = append(chain, e.guards.Handler(access.Roles()))
	}
	chain = append(chain, h)
	e.g.Handle(strings.ToUpper(method), path, chain...)
}

// RegisterAction 在当前 EZ 下注册动作接口
func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	status := a.Status
	if status == 0 {
		status = http.StatusOK
	}
	method := strings.ToUpper(a.Method)
	if method == "" {
		method = http.MethodPost
	}

	e.Handle(method, a.Path, a.Access, func(c *gin.Context) {
		// 1) 绑定入参
		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		case BindURI:
			bindErr = c.ShouldBindUri(&in)
		default: // BindNone: 不绑定
		}
		if bindErr != nil {
			resp.Abort(c, resp.CodeBadRequest, bindMessage(bindErr))
			return
		}

		// 2) 执行（可选事务）
		var out O
		var err error
		switch {
		case a.UseTx && e.db != nil:
			err = e.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
				o, herr := a.Handler(c, tx, &in)
				out = o
				return herr
			})
		case e.db != nil:
			out, err = a.Handler(c, e.db.WithContext(c.Request.Context()), &in)
		default:
			out, err = a.Handler(c, nil, &in)
		}

		// 3) 统一错误映射
		if err != nil {
			Fail(c, e.log, err)
			return
		}
		c.JSON(status, resp.OK(out))
	})
}

// Fail 用 EZ 自带的 logger 写出错误，给原始处理器用
func (e EZ) Fail(c *gin.Context, err error) { Fail(c, e.log, err) }

// Fail 把错误写成信封：errs.Error 按其 Code；其它错误记日志后返回不透明的 500
func Fail(c *gin.Context, l *zap.Logger, err error) {
	var e *errs.Error
	if errors.As(err, &e) {
		if e.Code >= http.StatusInternalServerError {
			l.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err), zap.NamedError("cause", e.Err))
		}
		resp.Abort(c, e.Code, e.Error())
		return
	}
	l.Error("unhandled error", zap.String("path", c.FullPath()), zap.Error(err))
	resp.Abort(c, resp.CodeServerError, "internal error")
}

func bindMessage(err error) string {
	var syn *json.SyntaxError
	var typ *json.UnmarshalTypeError
	switch {
	case errors.Is(err, io.EOF):
		return "request body is required"
	case errors.As(err, &syn):
		return "malformed JSON body"
	case errors.As(err, &typ):
		return fmt.Sprintf("%s must be %s", typ.Field, typ.Type)
	}
	if msgs := validationMessages(err); len(msgs) > 0 {
		return strings.Join(msgs, "; ")
	}
	return err.Error()
}
