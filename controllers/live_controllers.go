package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"gorm.io/gorm"

	"github.com/dinesync/dinesync/live"
	"github.com/dinesync/dinesync/models"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// LiveStaffHandler -> websocket stream of every event, for staff dashboards
func LiveStaffHandler(c *gin.Context) {
	roleInterface, exists := c.Get("role")
	if !exists {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	role := roleInterface.(string)

	if role != models.RoleAdmin && role != models.RoleWaiter &&
		role != models.RoleChef && role != models.RoleOwner {
		c.AbortWithStatus(http.StatusForbidden)
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	live.RegisterStaff(ws, role)

	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}

	live.Unregister(ws)
}

// LiveSessionHandler -> websocket stream scoped to one session, for diners
// watching joins and the running total
func LiveSessionHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.Param("session_id")

		var session models.Session
		if err := db.Where("id = ?", sessionID).First(&session).Error; err != nil {
			c.AbortWithStatus(http.StatusNotFound)
			return
		}

		ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}

		live.RegisterDiner(ws, session.ID)

		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				break
			}
		}

		live.Unregister(ws)
	}
}
