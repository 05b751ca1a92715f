package core

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/JonMunkholm/FieldInspect/internal/logging"
)

// InspectionFilter narrows an inspection listing. Empty fields match all.
type InspectionFilter struct {
	// Type is "TDM", "FTTH" (both FTTH types) or an exact inspection type.
	Type     string
	Location string // case-insensitive substring of the resolved location name
	Date     string // exact YYYY-MM-DD
	Status   InspectionStatus
}

// InspectionView is an inspection with its display fields resolved.
type InspectionView struct {
	Inspection
	Location      string `json:"location"`
	Detail        string `json:"detail"`
	InspectorName string `json:"inspectorName"`
}

// Submission is an inspection form as sent by an inspector.
type Submission struct {
	Type     InspectionType    `json:"type"`
	CenterID string            `json:"centerId,omitempty"`
	Data     map[string]string `json:"data"`
}

// SubmitResult reports what a submission changed.
type SubmitResult struct {
	Inspection  Inspection `json:"inspection"`
	BoxesMarked int        `json:"boxesMarked"`
}

// Form returns the checklist for an inspection type.
func (s *Service) Form(t InspectionType) (Form, error) {
	return FormFor(t)
}

// FormOptions returns the location option lists for a form given the
// selections made so far.
func (s *Service) FormOptions(ctx context.Context, t InspectionType, data map[string]string) ([]FieldOptions, error) {
	form, err := FormFor(t)
	if err != nil {
		return nil, err
	}
	items, err := s.Inventory(ctx, form.Network())
	if err != nil {
		return nil, err
	}
	return form.Options(data, items), nil
}

// SubmitInspection validates the form, stores the inspection and marks
// the inspected box as visited.
func (s *Service) SubmitInspection(ctx context.Context, actor User, sub Submission) (SubmitResult, error) {
	form, err := FormFor(sub.Type)
	if err != nil {
		return SubmitResult{}, err
	}

	if sub.CenterID != "" {
		center, err := s.store.GetCenter(ctx, sub.CenterID)
		if err != nil {
			return SubmitResult{}, err
		}
		if !slices.Contains(center.SupportedTypes, form.Network()) {
			return SubmitResult{}, ValidationErrors{{
				Field:   "centerId",
				Value:   sub.CenterID,
				Message: fmt.Sprintf("center does not support %s", form.Network()),
			}}
		}
	}

	items, err := s.Inventory(ctx, form.Network())
	if err != nil {
		return SubmitResult{}, err
	}
	data, err := form.Validate(sub.Data, items)
	if err != nil {
		return SubmitResult{}, err
	}

	now := s.now()
	in := Inspection{
		ID:          s.newID(),
		Type:        sub.Type,
		CenterID:    sub.CenterID,
		InspectorID: actor.ID,
		Date:        now.In(s.loc).Format(DateLayout),
		Status:      InspectionSubmitted,
		Data:        data,
		CreatedAt:   now,
	}

	marked, err := s.store.AddInspection(ctx, in, form.VisitKey(data))
	if err != nil {
		return SubmitResult{}, fmt.Errorf("add inspection: %w", err)
	}

	logging.WithFields(ctx, "inspection_id", in.ID, "type", in.Type, "boxes_marked", marked).
		Info("inspection submitted")
	return SubmitResult{Inspection: in, BoxesMarked: marked}, nil
}

// ListInspections returns the inspections visible to actor that match f,
// newest first. Inspectors see only their own.
func (s *Service) ListInspections(ctx context.Context, actor User, f InspectionFilter) ([]InspectionView, error) {
	all, err := s.store.ListInspections(ctx)
	if err != nil {
		return nil, fmt.Errorf("list inspections: %w", err)
	}
	centers, names, err := s.lookups(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]InspectionView, 0, len(all))
	for _, in := range all {
		if !canSee(actor, in) {
			continue
		}
		v := view(in, centers, names)
		if f.matches(v) {
			out = append(out, v)
		}
	}
	return out, nil
}

// GetInspection returns one inspection if actor may see it.
func (s *Service) GetInspection(ctx context.Context, actor User, id string) (InspectionView, error) {
	in, err := s.store.GetInspection(ctx, id)
	if err != nil {
		return InspectionView{}, err
	}
	if !canSee(actor, in) {
		return InspectionView{}, fmt.Errorf("%w: inspection %s belongs to another inspector", ErrForbidden, id)
	}
	centers, names, err := s.lookups(ctx)
	if err != nil {
		return InspectionView{}, err
	}
	return view(in, centers, names), nil
}

func (s *Service) lookups(ctx context.Context) (map[string]Center, map[string]string, error) {
	cs, err := s.store.ListCenters(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list centers: %w", err)
	}
	us, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list users: %w", err)
	}
	centers := make(map[string]Center, len(cs))
	for _, c := range cs {
		centers[c.ID] = c
	}
	names := make(map[string]string, len(us))
	for _, u := range us {
		names[u.ID] = u.Name
	}
	return centers, names, nil
}

func canSee(actor User, in Inspection) bool {
	return actor.Role == RoleAdmin || in.InspectorID == actor.ID
}

func view(in Inspection, centers map[string]Center, names map[string]string) InspectionView {
	return InspectionView{
		Inspection:    in,
		Location:      InspectionLocation(in, centers),
		Detail:        InspectionDetail(in),
		InspectorName: names[in.InspectorID],
	}
}

func (f InspectionFilter) matches(v InspectionView) bool {
	switch {
	case f.Type == "":
	case strings.EqualFold(f.Type, "FTTH"):
		if !strings.HasPrefix(string(v.Type), "FTTH") {
			return false
		}
	case !strings.EqualFold(f.Type, string(v.Type)):
		return false
	}
	if f.Location != "" && !strings.Contains(strings.ToLower(v.Location), strings.ToLower(f.Location)) {
		return false
	}
	if f.Date != "" && v.Date != f.Date {
		return false
	}
	if f.Status != "" && v.Status != f.Status {
		return false
	}
	return true
}

// InspectionLocation resolves a display name for where an inspection took
// place: the exchange from the form data, then the passive cabinet, then
// the center, then "Unknown Location".
func InspectionLocation(in Inspection, centers map[string]Center) string {
	if v := in.Data["mainExchange"]; v != "" {
		return v
	}
	if v := in.Data["exchangeName"]; v != "" {
		return v
	}
	if v := in.Data["passiveCabinet"]; v != "" {
		return "Cabinet: " + v
	}
	if c, ok := centers[in.CenterID]; ok && c.Name != "" {
		return c.Name
	}
	return "Unknown Location"
}

// InspectionDetail summarises the inspected equipment.
func InspectionDetail(in Inspection) string {
	switch in.Type {
	case InspectionTDM:
		if cab := in.Data["cabinetNumber"]; cab != "" {
			return fmt.Sprintf("Cab: %s, Box: %s", cab, in.Data["boxNumber"])
		}
	case InspectionFTTHCabinet, InspectionFTTHBox:
		return in.Data["passiveCabinet"]
	}
	return ""
}
