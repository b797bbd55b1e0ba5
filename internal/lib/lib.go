// Package lib holds helpers that do not belong to a layer.
package lib
