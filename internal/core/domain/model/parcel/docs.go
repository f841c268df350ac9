// Package parcel holds the package attributes that affect a delivery price:
// the size class and the fragile/valuable flags.
package parcel
