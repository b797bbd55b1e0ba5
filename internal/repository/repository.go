// Package repository handles all interactions with the sample tables.
//
// Statements are built with the gocqlx query builder and executed through
// database.Session with bound values, so the driver prepares each one once
// and reuses it for every row.
package repository
