// Package bizreg valida el número de registro empresarial coreano (사업자등록번호).
package bizreg

import (
	"fmt"
	"unicode"
)

// pesos del dígito de control, aplicados a los 9 primeros dígitos de izquierda a derecha.
var weights = [9]int{1, 3, 7, 1, 3, 7, 1, 3, 5}

// Validate comprueba longitud (10 dígitos) y dígito de control.
// Acepta "220-81-62517" o "2208162517".
func Validate(number string) error {
	digits := extractDigits(number)
	if len(digits) != 10 {
		return fmt.Errorf("bizreg: se requieren 10 dígitos, se encontraron %d", len(digits))
	}
	expected := checkDigit(digits)
	if digits[9] != expected {
		return fmt.Errorf("bizreg: dígito de control inválido: esperado %c, recibido %c", expected, digits[9])
	}
	return nil
}

// Normalize devuelve el número con el formato XXX-XX-XXXXX; si no tiene 10 dígitos lo
// devuelve sin cambios.
func Normalize(number string) string {
	d := extractDigits(number)
	if len(d) != 10 {
		return number
	}
	return string(d[:3]) + "-" + string(d[3:5]) + "-" + string(d[5:])
}

func checkDigit(digits []byte) byte {
	var sum int
	for i, w := range weights {
		sum += int(digits[i]-'0') * w
	}
	sum += int(digits[8]-'0') * 5 / 10
	return byte('0' + (10-sum%10)%10)
}

func extractDigits(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if unicode.IsDigit(r) && r < unicode.MaxASCII {
			out = append(out, byte(r))
		}
	}
	return out
}
