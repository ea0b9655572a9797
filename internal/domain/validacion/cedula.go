package validacion

import "strconv"

var coeficientesCedula = [9]int{2, 1, 2, 1, 2, 1, 2, 1, 2}

// ValidarCedula verifica una cédula ecuatoriana de 10 dígitos: código de
// provincia válido (01 a 24, o 30 para ecuatorianos en el exterior),
// tercer dígito menor a 6 y dígito verificador según el algoritmo de
// módulo 10 del Registro Civil.
func (v *Validador) ValidarCedula(cedula string) bool {
	v.mu.Lock()
	valida, ok := v.cedulas[cedula]
	v.mu.Unlock()
	if ok {
		return valida
	}

	valida = validarCedula(cedula)

	v.mu.Lock()
	if len(v.cedulas) >= maxEntradasMemo {
		v.cedulas = make(map[string]bool)
	}
	v.cedulas[cedula] = valida
	v.mu.Unlock()

	return valida
}

func validarCedula(cedula string) bool {
	if len(cedula) != 10 {
		return false
	}
	for _, r := range cedula {
		if r < '0' || r > '9' {
			return false
		}
	}
	provincia, _ := strconv.Atoi(cedula[:2])
	if (provincia < 1 || provincia > 24) && provincia != 30 {
		return false
	}
	if int(cedula[2]-'0') >= 6 {
		return false
	}

	total := 0
	for i, c := range coeficientesCedula {
		producto := int(cedula[i]-'0') * c
		if producto > 9 {
			producto -= 9
		}
		total += producto
	}
	verificador := (10 - total%10) % 10
	return verificador == int(cedula[9]-'0')
}
