// Package model holds the data types exchanged between the planning
// components: user preferences, fixed events, movable tasks, the slot grid
// and the resulting assignments. Values are immutable inputs for one
// planning run.
package model
