package services

import (
	"github.com/yigit/schoolms/internal/app/models"
	"github.com/yigit/schoolms/internal/app/models/dto"
	"github.com/yigit/schoolms/internal/pkg/helpers"
)

func toStudentItem(s *models.Student) dto.StudentItem {
	return dto.StudentItem{
		ID:         s.ID,
		Identifier: s.Identifier,
		Name:       s.Name,
		Email:      s.Email,
		Age:        s.Age,
		Address:    s.Address,
		Department: s.DepartmentName(),
	}
}

func toMarkItems(marks []models.SubjectMark) []dto.MarkItem {
	items := make([]dto.MarkItem, 0, len(marks))
	for _, m := range marks {
		items = append(items, dto.MarkItem{SubjectID: m.SubjectID, SubjectName: m.SubjectName, Marks: m.Marks})
	}
	return items
}

func toAttendanceItem(a models.Attendance) dto.AttendanceItem {
	return dto.AttendanceItem{Date: a.Date.Format(helpers.DateLayout), IsPresent: a.IsPresent}
}

func toAttendanceItems(days []models.Attendance) []dto.AttendanceItem {
	items := make([]dto.AttendanceItem, 0, len(days))
	for _, a := range days {
		items = append(items, toAttendanceItem(a))
	}
	return items
}

func toFeeItem(f *models.FeeRecord) dto.FeeItem {
	item := dto.FeeItem{
		ID:          f.ID,
		DueDate:     f.DueDate.Format(helpers.DateLayout),
		AmountDue:   f.AmountDue,
		AmountPaid:  f.AmountPaid,
		Outstanding: f.Outstanding(),
		Status:      string(f.Status),
	}
	if f.PaymentDate != nil {
		paid := f.PaymentDate.Format(helpers.DateLayout)
		item.PaymentDate = &paid
	}
	return item
}

func toFeeItems(fees []models.FeeRecord) []dto.FeeItem {
	items := make([]dto.FeeItem, 0, len(fees))
	for i := range fees {
		items = append(items, toFeeItem(&fees[i]))
	}
	return items
}
