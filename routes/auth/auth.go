package auth

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"homeguard/controllers"
)

// RegisterPublic registers public auth routes: /register, /login
func RegisterPublic(r *gin.Engine, db *gorm.DB) {
	r.POST("/register", controllers.Register(db))
	r.POST("/login", controllers.Login(db))
}

// RegisterProtected registers protected auth routes (e.g. logout)
func RegisterProtected(g *gin.RouterGroup) {
	g.POST("/logout", controllers.Logout())
}
