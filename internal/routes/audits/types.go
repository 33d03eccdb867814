package audits

import (
	"time"

	"philcali.me/notifications/internal/data"
)

type Audit struct {
	Id           string    `json:"auditId"`
	ResourceId   string    `json:"resourceId"`
	ResourceType string    `json:"resourceType"`
	Action       string    `json:"action"`
	CreateTime   time.Time `json:"createTime"`
	UpdateTime   time.Time `json:"updateTime"`
}

func NewAudit(entry data.AuditDTO) Audit {
	return Audit{
		Id:           entry.SK,
		ResourceId:   entry.ResourceId,
		ResourceType: entry.ResourceType,
		Action:       entry.Action,
		CreateTime:   entry.CreateTime,
		UpdateTime:   entry.UpdateTime,
	}
}
