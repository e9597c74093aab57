package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"catalog-api/internal/core/errs"
	"catalog-api/internal/feature/files"
	"catalog-api/internal/transport/http/ez"
)

type filesModule struct{ svc *files.Service }

func (filesModule) Priority() int { return 30 }

func (m filesModule) MountAPI(e ez.EZ) {
	g := e.Group("/files")

	ez.RegisterAction(g, ez.Action[struct{}, gin.H]{
		Method: http.MethodPost,
		Path:   "/product",
		Access: ez.Auth(),
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, _ *gorm.DB, _ *struct{}) (gin.H, error) {
			// multipart 额外留 1MB 给表单边界与其它字段
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, m.svc.MaxBytes()+1<<20)
			fh, err := c.FormFile("file")
			if err != nil {
				return nil, errs.BadRequest("make sure that the file is an image")
			}
			url, err := m.svc.Save(fh)
			if err != nil {
				return nil, err
			}
			return gin.H{"secureUrl": url}, nil
		},
	})

	g.Handle(http.MethodGet, "/product/:imageName", ez.Public(), func(c *gin.Context) {
		p, err := m.svc.Path(c.Param("imageName"))
		if err != nil {
			g.Fail(c, err)
			return
		}
		c.File(p)
	})
}
