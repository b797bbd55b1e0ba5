package model

// GetDepartmentRequest is bound from GET /api/v1/departments/:id.
type GetDepartmentRequest struct {
	ID int `param:"id" validate:"required,min=1"`
}

func (r *GetDepartmentRequest) Validate() error {
	return validate.Struct(r)
}

// GetEmployeeRequest is bound from GET /api/v1/employees/:id.
type GetEmployeeRequest struct {
	ID int `param:"id" validate:"required,min=1"`
}

func (r *GetEmployeeRequest) Validate() error {
	return validate.Struct(r)
}

// ListRequest is bound by the list endpoints, which take no parameters.
type ListRequest struct{}

func (r *ListRequest) Validate() error {
	return nil
}
