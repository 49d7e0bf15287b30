// Package service implements the relationship synchronizer: the only
// component that writes course rows. It creates and updates courses together
// with their organization/difficulty references and their subject/grade
// association sets as a single transaction, resolving referenced taxonomy
// entities by natural key first (get-or-create where the taxonomy is open,
// strict lookup where it is curated).
package service
