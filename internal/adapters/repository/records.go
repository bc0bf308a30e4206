package repository

import "github.com/okian/clubboard/internal/domain/model"

// memberRecord is the table layout of a member. Points is nullable so an
// unset total survives a round trip.
type memberRecord struct {
	ID                string `gorm:"primaryKey;size:64"`
	Name              string `gorm:"index"`
	Department        string
	Batch             string
	Position          string
	Phone             string
	YearJoined        string
	UniqueID          string
	Conflict          string
	Active            bool
	EventsCoordinated int
	EventsVolunteered int
	EventsAttended    int
	Points            *int
	CreatedAt         int64 `gorm:"autoCreateTime:nano;index"`
}

func (memberRecord) TableName() string { return "members" }

// eventRecord is the table layout of an event. Role sets are JSON arrays.
type eventRecord struct {
	ID                string `gorm:"primaryKey;size:64"`
	Name              string
	Date              string
	Venue             string
	Mode              string
	Type              string
	Description       string
	ImageURL          string
	CreatedBy         string   `gorm:"index"`
	UpdatedBy         string
	Coordinators      []string `gorm:"serializer:json"`
	Volunteers        []string `gorm:"serializer:json"`
	Attendees         []string `gorm:"serializer:json"`
	CoordinatorPoints *int
	VolunteerPoints   *int
	AttendeePoints    *int
	CreatedAt         int64 `gorm:"autoCreateTime:nano;index"`
}

func (eventRecord) TableName() string { return "events" }

var memberProfileColumns = []string{
	"name", "department", "batch", "position", "phone",
	"year_joined", "unique_id", "conflict", "active",
}

func toMemberRecord(m model.Member) memberRecord {
	return memberRecord{
		ID:                m.ID,
		Name:              m.Name,
		Department:        m.Department,
		Batch:             m.Batch,
		Position:          m.Position,
		Phone:             m.Phone,
		YearJoined:        m.YearJoined,
		UniqueID:          m.UniqueID,
		Conflict:          m.Conflict,
		Active:            m.Active,
		EventsCoordinated: m.EventsCoordinated,
		EventsVolunteered: m.EventsVolunteered,
		EventsAttended:    m.EventsAttended,
		Points:            m.Points.Ptr(),
	}
}

func (r memberRecord) toModel() model.Member {
	return model.Member{
		ID:                r.ID,
		Name:              r.Name,
		Department:        r.Department,
		Batch:             r.Batch,
		Position:          r.Position,
		Phone:             r.Phone,
		YearJoined:        r.YearJoined,
		UniqueID:          r.UniqueID,
		Conflict:          r.Conflict,
		Active:            r.Active,
		EventsCoordinated: r.EventsCoordinated,
		EventsVolunteered: r.EventsVolunteered,
		EventsAttended:    r.EventsAttended,
		Points:            model.PointsFromPtr(r.Points),
	}
}

func toEventRecord(e model.Event) eventRecord {
	return eventRecord{
		ID:                e.ID,
		Name:              e.Name,
		Date:              e.Date,
		Venue:             e.Venue,
		Mode:              e.Mode,
		Type:              e.Type,
		Description:       e.Description,
		ImageURL:          e.ImageURL,
		CreatedBy:         e.CreatedBy,
		UpdatedBy:         e.UpdatedBy,
		Coordinators:      e.Coordinators.IDs(),
		Volunteers:        e.Volunteers.IDs(),
		Attendees:         e.Attendees.IDs(),
		CoordinatorPoints: e.CoordinatorPoints.Ptr(),
		VolunteerPoints:   e.VolunteerPoints.Ptr(),
		AttendeePoints:    e.AttendeePoints.Ptr(),
	}
}

func (r eventRecord) toModel() model.Event {
	return model.Event{
		ID:                r.ID,
		Name:              r.Name,
		Date:              r.Date,
		Venue:             r.Venue,
		Mode:              r.Mode,
		Type:              r.Type,
		Description:       r.Description,
		ImageURL:          r.ImageURL,
		CreatedBy:         r.CreatedBy,
		UpdatedBy:         r.UpdatedBy,
		Coordinators:      model.NewRoleSet(r.Coordinators...),
		Volunteers:        model.NewRoleSet(r.Volunteers...),
		Attendees:         model.NewRoleSet(r.Attendees...),
		CoordinatorPoints: model.PointsFromPtr(r.CoordinatorPoints),
		VolunteerPoints:   model.PointsFromPtr(r.VolunteerPoints),
		AttendeePoints:    model.PointsFromPtr(r.AttendeePoints),
	}
}
