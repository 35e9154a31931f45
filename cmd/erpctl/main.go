// Command erpctl is the operator tool for the ERP backend: schema migrations,
// bootstrapping the first admin and auditing voucher impact.
package main

func main() {
	Execute()
}
