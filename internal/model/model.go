// Package model holds the row types of the sample schema.
package model

import "github.com/go-playground/validator/v10"

// Department is a row of the departments table, keyed by DepID.
type Department struct {
	DepID        int    `json:"dep_id" validate:"required,min=1"`
	DepName      string `json:"dep_name" validate:"required"`
	DepHead      string `json:"dep_head" validate:"required"`
	DepHeadEmail string `json:"dep_head_email" validate:"required,email"`
}

// Employee is a row of the employees table. EmpID is the partition key and
// DepID the clustering key, so one employee may appear under several
// departments.
type Employee struct {
	EmpID  int    `json:"emp_id" validate:"required,min=1"`
	DepID  int    `json:"dep_id" validate:"required,min=1"`
	Name   string `json:"name" validate:"required"`
	Email  string `json:"email" validate:"required,email"`
	Gender string `json:"gender" validate:"required,oneof=F f M m"`
}

var validate = validator.New()

// Validate checks the row before it is written.
func (d Department) Validate() error {
	return validate.Struct(d)
}

// Validate checks the row before it is written.
func (e Employee) Validate() error {
	return validate.Struct(e)
}

// SampleDepartments is the fixed department data set.
func SampleDepartments() []Department {
	return []Department{
		{DepID: 1, DepName: "hr", DepHead: "charu", DepHeadEmail: "charu@ig.com"},
		{DepID: 2, DepName: "admin", DepHead: "deepak handuja", DepHeadEmail: "deepak@ig.com"},
	}
}

// SampleEmployees is the fixed employee data set. Gender values keep their
// mixed case.
func SampleEmployees() []Employee {
	return []Employee{
		{EmpID: 1, DepID: 1, Name: "Charu", Email: "charu@ig.com", Gender: "F"},
		{EmpID: 2, DepID: 2, Name: "Deepak", Email: "deepak@ig.com", Gender: "m"},
	}
}
