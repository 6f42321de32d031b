package router

import "github.com/gin-gonic/gin"

// Module registers one feature's routes (auth, languages, translations...) on the /api group.
type Module interface {
	Register(rg *gin.RouterGroup)
}
