package notification_test

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoMarket-Shop/GoMarket/internal/db/models"
	"github.com/GoMarket-Shop/GoMarket/internal/web/handler/notification"
	"github.com/GoMarket-Shop/GoMarket/internal/web/webtest"
)

func TestListUnreadAndMarkRead(t *testing.T) {
	svc := webtest.NewService(t)
	db := svc.Deps().DB

	user, token := webtest.CreateUser(t, svc, models.TradeRoleBuyer, "buyer@example.com", "+998901000002")

	notes := []models.Notification{
		{UserID: user.ID, Type: models.NotificationOrderCreated, Message: "Your order has been created."},
		{UserID: user.ID, Type: models.NotificationPaymentCompleted, Message: "Your payment has been received."},
	}
	for i := range notes {
		require.NoError(t, db.Create(&notes[i]).Error)
	}

	resp := webtest.DoJSON(t, svc, http.MethodGet, notification.Path, nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var listed []struct {
		ID   uuid.UUID `json:"ID"`
		Read bool      `json:"Read"`
	}
	webtest.Decode(t, resp, &listed)
	require.Len(t, listed, 2)

	resp = webtest.DoJSON(t, svc, http.MethodGet, notification.Path+"/unread", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var unread struct {
		Unread int64 `json:"unread"`
	}
	webtest.Decode(t, resp, &unread)
	assert.Equal(t, int64(2), unread.Unread)

	resp = webtest.DoJSON(t, svc, http.MethodPatch, notification.Path+"/"+listed[0].ID.String()+"/read", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = webtest.DoJSON(t, svc, http.MethodGet, notification.Path+"/unread", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	webtest.Decode(t, resp, &unread)
	assert.Equal(t, int64(1), unread.Unread)
}

func TestMarkReadIsScopedToOwner(t *testing.T) {
	svc := webtest.NewService(t)
	db := svc.Deps().DB

	owner, _ := webtest.CreateUser(t, svc, models.TradeRoleBuyer, "owner@example.com", "+998901000002")
	_, otherToken := webtest.CreateUser(t, svc, models.TradeRoleBuyer, "other@example.com", "+998901000003")

	note := models.Notification{UserID: owner.ID, Type: models.NotificationOrderCreated, Message: "hi"}
	require.NoError(t, db.Create(&note).Error)

	resp := webtest.DoJSON(t, svc, http.MethodPatch, notification.Path+"/"+note.ID.String()+"/read", nil, otherToken)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}
