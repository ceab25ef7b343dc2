package infinitecampus

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

const rosterExpand = "{sectionPlacements-{term}}"

// DefaultNotificationLimit is the number of notifications requested when none is given.
const DefaultNotificationLimit = 200

func prismQuery(action string) map[string]string {
	return map[string]string{"x": action}
}

// GetGrades fetches the grades feed: one entry per school, each with its term tree.
func (c *Client) GetGrades(ctx context.Context) ([]RawSchool, error) {
	return getJSON[[]RawSchool](ctx, c, "get grades", "resources/portal/grades", nil)
}

// GetRoster fetches the roster feed with section placements expanded.
func (c *Client) GetRoster(ctx context.Context) ([]RawRosterItem, error) {
	return getJSON[[]RawRosterItem](ctx, c, "get roster", "resources/portal/roster", map[string]string{
		"_expand": rosterExpand,
	})
}

// GetGradesXML fetches the grades outline from the legacy xml api.
func (c *Client) GetGradesXML(ctx context.Context) ([]RawSchool, error) {
	body, err := c.get(ctx, "get grades xml", "prism", map[string]string{
		"x":    "portal.PortalOutline",
		"mode": "grades",
	})
	if err != nil {
		return nil, err
	}
	schools, err := DecodeGradesXML(body)
	if err != nil {
		c.tel.ReportBroken(report_client_get, "get grades xml", err)
		return nil, unexpected("get grades xml", body, err)
	}
	return schools, nil
}

// GetRosterXML fetches the schedule outline from the legacy xml api.
func (c *Client) GetRosterXML(ctx context.Context) ([]RawRosterItem, error) {
	body, err := c.get(ctx, "get roster xml", "prism", map[string]string{
		"x":    "portal.PortalOutline",
		"mode": "schedule",
	})
	if err != nil {
		return nil, err
	}
	roster, err := DecodeRosterXML(body)
	if err != nil {
		c.tel.ReportBroken(report_client_get, "get roster xml", err)
		return nil, unexpected("get roster xml", body, err)
	}
	return roster, nil
}

func (c *Client) GetAssignments(ctx context.Context) ([]RawAssignment, error) {
	return getJSON[[]RawAssignment](ctx, c, "get assignments", "api/portal/assignment/listView", nil)
}

// GetNotifications fetches up to limit notifications, newest first.
func (c *Client) GetNotifications(ctx context.Context, limit int) ([]RawNotification, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("get notifications: limit must be positive, got %d", limit)
	}
	query := prismQuery("notifications.Notification-retrieve")
	query["limitCount"] = strconv.Itoa(limit)
	res, err := getJSON[notificationListResponse](ctx, c, "get notifications", "prism", query)
	if err != nil {
		return nil, err
	}
	return res.Data.NotificationList.Notification, nil
}

// CountUnviewedNotifications returns the number shown on the notification bell.
func (c *Client) CountUnviewedNotifications(ctx context.Context) (int, error) {
	res, err := getJSON[notificationCountResponse](
		ctx, c, "count notifications", "prism",
		prismQuery("notifications.NotificationUser-countUnviewed"),
	)
	if err != nil {
		return 0, err
	}
	count := res.Data.RecentNotifications.Count
	if !count.Valid {
		return 0, &UnexpectedResponseError{Operation: "count notifications", Err: fmt.Errorf("missing count")}
	}
	return int(count.Value), nil
}

// UpdateLastViewed resets the unviewed notification count.
func (c *Client) UpdateLastViewed(ctx context.Context) error {
	_, err := c.get(ctx, "reset notification count", "prism", prismQuery("notifications.NotificationUser-updateLastViewed"))
	return err
}

func (c *Client) MarkAllRead(ctx context.Context) error {
	_, err := c.get(ctx, "mark all notifications read", "prism", prismQuery("notifications.Notification-markAllRead"))
	return err
}

var toggleFailMarkers = []struct {
	text string
	err  error
}{
	{text: "Cannot mark other user's notification as read or unread", err: ErrNotificationNotFound},
	{text: "invalid input", err: ErrInvalidInput},
	{text: "No Campus Application selected", err: ErrBadApplication},
}

// ToggleRead flips the read state of one notification.
func (c *Client) ToggleRead(ctx context.Context, notificationID string) error {
	query := prismQuery("notifications.Notification-toggleRead")
	query["notificationID"] = notificationID
	body, err := c.get(ctx, "toggle notification read", "prism", query)
	if err != nil {
		return err
	}
	text := string(body)
	for _, marker := range toggleFailMarkers {
		if strings.Contains(text, marker.text) {
			return fmt.Errorf("toggle notification read '%s': %w", notificationID, marker.err)
		}
	}
	return nil
}
