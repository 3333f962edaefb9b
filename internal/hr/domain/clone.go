package domain

// Clone returns a deep copy of the snapshot. Collections are copied so
// the result can cross the store boundary without aliasing store-owned
// memory; optional numeric fields are re-pointed at fresh values.
func (s Snapshot) Clone() Snapshot {
	out := s

	out.Employees = append([]Employee(nil), s.Employees...)
	out.OpenPositions = append([]OpenPosition(nil), s.OpenPositions...)
	for i := range out.OpenPositions {
		if c := out.OpenPositions[i].Cost; c != nil {
			v := *c
			out.OpenPositions[i].Cost = &v
		}
	}
	out.Users = append([]User(nil), s.Users...)
	if s.CurrentUser != nil {
		u := *s.CurrentUser
		out.CurrentUser = &u
	}
	out.SalaryHistory = append([]SalaryChange(nil), s.SalaryHistory...)
	out.FunctionHistory = append([]Change(nil), s.FunctionHistory...)
	out.ContractHistory = append([]Change(nil), s.ContractHistory...)
	out.DepartmentHistory = append([]Change(nil), s.DepartmentHistory...)
	out.EntityHistory = append([]Change(nil), s.EntityHistory...)
	out.WorkLocationHistory = append([]WorkLocationChange(nil), s.WorkLocationHistory...)
	for i := range out.WorkLocationHistory {
		if p := out.WorkLocationHistory[i].PourcentagePrime; p != nil {
			v := *p
			out.WorkLocationHistory[i].PourcentagePrime = &v
		}
		if d := out.WorkLocationHistory[i].DureeAffectationMois; d != nil {
			v := *d
			out.WorkLocationHistory[i].DureeAffectationMois = &v
		}
	}
	out.Departments = append([]string(nil), s.Departments...)
	out.Entities = append([]string(nil), s.Entities...)
	out.WorkLocations = append([]string(nil), s.WorkLocations...)

	return out
}
