package document

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/docstore"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/timestamp"
)

const recordsSubCollection = "records"

type AttendanceOptions struct {
	// Collection holds date parents with a records sub-collection. Flat
	// rows may live here too.
	Collection string
	// FlatCollection is read in addition to Collection when set, and is
	// where upserts write. Defaults to Collection.
	FlatCollection string
	Timeout        time.Duration
	Location       *time.Location
}

type attendanceRepositoryImpl struct {
	base
	collection     string
	flatCollection string
	loc            *time.Location
}

func NewAttendanceRepository(store docstore.Store, opts AttendanceOptions) attendance.AttendanceRepository {
	if opts.Collection == "" {
		opts.Collection = "attendance"
	}
	if opts.FlatCollection == "" {
		opts.FlatCollection = opts.Collection
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	return &attendanceRepositoryImpl{
		base:           newBase(store, opts.Timeout),
		collection:     opts.Collection,
		flatCollection: opts.FlatCollection,
		loc:            opts.Location,
	}
}

// FetchAll implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) FetchAll(ctx context.Context) attendance.FetchResult {
	result := attendance.FetchResult{Records: []attendance.Attendance{}}

	warn := func(path string, err error) {
		slog.Warn("attendance read degraded", "collection", path, "error", err)
		result.Warnings = append(result.Warnings, fmt.Sprintf("could not read %s", path))
	}

	// an unreadable nested collection still leaves the flat one to read
	parents, err := r.get(ctx, r.store.Collection(r.collection))
	if err != nil {
		warn(r.collection, err)
	}

	for _, parent := range parents {
		// flat rows can share the collection with date parents
		if _, ok := parent.Data["staff_name"]; ok {
			result.Records = append(result.Records, r.flatRecord(parent))
			continue
		}

		date := r.parentDate(parent)
		sub := r.store.Collection(r.collection).Sub(parent.ID, recordsSubCollection)
		children, err := r.get(ctx, sub)
		if err != nil {
			warn(sub.Path(), err)
			continue
		}
		for _, child := range children {
			result.Records = append(result.Records, r.nestedRecord(child, date))
		}
	}

	if r.flatCollection != r.collection {
		docs, err := r.get(ctx, r.store.Collection(r.flatCollection))
		if err != nil {
			warn(r.flatCollection, err)
		}
		for _, doc := range docs {
			result.Records = append(result.Records, r.flatRecord(doc))
		}
	}

	return result
}

// Upsert implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Upsert(ctx context.Context, staffName string, action attendance.Action, at time.Time) (attendance.Attendance, error) {
	if action != attendance.ActionCheckIn && action != attendance.ActionCheckOut {
		return attendance.Attendance{}, attendance.ErrInvalidAction
	}

	key := at.In(r.loc).Format(timestamp.DateLayout)
	instant := formatInstant(at, r.loc)
	coll := r.store.Collection(r.flatCollection)

	docs, err := r.query(ctx, coll, docstore.Where("staff_name", docstore.OpEqual, staffName))
	if err != nil {
		return attendance.Attendance{}, err
	}

	// docs are oldest first, so legacy duplicates resolve to the oldest row
	var existing *docstore.Document
	for i := range docs {
		if r.flatRecord(docs[i]).Date == key {
			existing = &docs[i]
			break
		}
	}

	if existing == nil {
		data := docstore.Data{
			"staff_name": staffName,
			"date":       key,
			"check_in":   nil,
			"check_out":  nil,
			"status":     string(attendance.StatusPresent),
		}
		if action == attendance.ActionCheckIn {
			data["check_in"] = instant
		} else {
			data["check_out"] = instant
		}

		id, err := r.add(ctx, coll, data)
		if err != nil {
			return attendance.Attendance{}, err
		}
		return r.flatRecord(docstore.Document{ID: id, Data: data}), nil
	}

	patch := docstore.Data{"check_out": instant}
	if action == attendance.ActionCheckIn {
		patch = docstore.Data{"check_in": instant, "status": string(attendance.StatusPresent)}
	}
	if err := r.update(ctx, coll, existing.ID, patch); err != nil {
		// the row vanished between read and write
		return attendance.Attendance{}, unavailable("update "+coll.Path()+"/"+existing.ID, err)
	}

	merged := docstore.Data{}
	for k, v := range existing.Data {
		merged[k] = v
	}
	for k, v := range patch {
		merged[k] = v
	}
	return r.flatRecord(docstore.Document{ID: existing.ID, Data: merged}), nil
}

// parentDate is the parent's date field, falling back to the document id.
func (r *attendanceRepositoryImpl) parentDate(parent docstore.Document) string {
	if date := r.dateKey(parent.Data["date"]); date != "" {
		return date
	}
	return parent.ID
}

// dateKey keeps string dates verbatim, so rows stored in another format are
// dropped by range filtering. Native timestamps become a key in r.loc.
func (r *attendanceRepositoryImpl) dateKey(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	}
	if t := timestamp.NormalizeIn(raw, r.loc); t != nil {
		return t.In(r.loc).Format(timestamp.DateLayout)
	}
	return ""
}

func (r *attendanceRepositoryImpl) flatRecord(doc docstore.Document) attendance.Attendance {
	a := attendance.Attendance{
		ID:         doc.ID,
		StaffName:  str(doc.Data, "staff_name", "name"),
		Date:       r.dateKey(doc.Data["date"]),
		Status:     attendance.ParseStatus(str(doc.Data, "status")),
		NFCUID:     str(doc.Data, "nfc_uid"),
		DeviceID:   str(doc.Data, "device_id"),
		Department: str(doc.Data, "department"),
		UserID:     str(doc.Data, "user_id"),
		Source:     attendance.SourceFlat,
	}

	a.CheckIn = r.instant(doc.Data["check_in"], a.Date)
	a.CheckOut = r.instant(doc.Data["check_out"], a.Date)

	if a.Date == "" {
		if ts := a.Timestamp(); ts != nil && !timestamp.IsClockOnly(*ts) {
			a.Date = ts.In(r.loc).Format(timestamp.DateLayout)
		}
	}

	if action, ok := attendance.ParseAction(str(doc.Data, "action")); ok {
		a.Action = action
	} else if a.CheckIn == nil && a.CheckOut != nil {
		a.Action = attendance.ActionCheckOut
	} else {
		a.Action = attendance.ActionCheckIn
	}

	return a
}

func (r *attendanceRepositoryImpl) nestedRecord(doc docstore.Document, date string) attendance.Attendance {
	a := attendance.Attendance{
		ID:         doc.ID,
		StaffName:  str(doc.Data, "name", "staff_name"),
		Date:       date,
		Status:     attendance.ParseStatus(str(doc.Data, "status")),
		NFCUID:     str(doc.Data, "nfc_uid"),
		DeviceID:   str(doc.Data, "device_id"),
		Department: str(doc.Data, "department"),
		UserID:     str(doc.Data, "user_id"),
		Source:     attendance.SourceNested,
	}

	action, ok := attendance.ParseAction(str(doc.Data, "action"))
	if !ok {
		action = attendance.ActionCheckIn
	}
	a.Action = action

	ts := r.instant(doc.Data["timestamp"], date)
	if action == attendance.ActionCheckOut {
		a.CheckOut = ts
	} else {
		a.CheckIn = ts
	}

	if a.Date == "" && ts != nil && !timestamp.IsClockOnly(*ts) {
		a.Date = ts.In(r.loc).Format(timestamp.DateLayout)
	}

	return a
}

// instant normalizes a raw value and moves bare clock times onto date.
func (r *attendanceRepositoryImpl) instant(raw any, date string) *time.Time {
	t := timestamp.NormalizeIn(raw, r.loc)
	if t == nil {
		return nil
	}
	if timestamp.IsClockOnly(*t) && date != "" {
		anchored := timestamp.AnchorToDate(*t, date, r.loc)
		return &anchored
	}
	return t
}
