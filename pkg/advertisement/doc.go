// Package advertisement implements advertisement storage and CRUD.
package advertisement
