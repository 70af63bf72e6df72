// Package schema has the models, enums and defaults shared by every part of supplychain.
package schema
